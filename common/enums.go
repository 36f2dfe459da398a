// Package common holds enumerations shared between the catalog, composition
// and command line layers. Enum boilerplate is generated by go-enum, do not
// edit *_enum.go files by hand.
package common

//go:generate go tool go-enum --names --marshal

// Supported goody language. Adding a language means adding it here, to the
// tables below and to the header rules table in goody package.
// ENUM(java, javascript, kotlin, python3, typescript)
type Language string

var languageDisplayNames = map[Language]string{
	LanguageJava:       "Java",
	LanguageJavascript: "JavaScript",
	LanguageKotlin:     "Kotlin",
	LanguagePython3:    "Python 3",
	LanguageTypescript: "TypeScript",
}

var languageExtensions = map[Language]string{
	LanguageJava:       ".java",
	LanguageJavascript: ".js",
	LanguageKotlin:     ".kt",
	LanguagePython3:    ".py",
	LanguageTypescript: ".ts",
}

// DisplayName returns human readable language name.
func (l Language) DisplayName() string {
	if name, ok := languageDisplayNames[l]; ok {
		return name
	}
	return string(l)
}

// Ext returns source file extension (with leading dot) for the language.
func (l Language) Ext() string {
	if ext, ok := languageExtensions[l]; ok {
		return ext
	}
	// this should never happen
	panic("unsupported language requested")
}

// LanguageFromExt maps source file extension back to the language.
func LanguageFromExt(ext string) (Language, bool) {
	for l, e := range languageExtensions {
		if e == ext {
			return l, true
		}
	}
	return "", false
}
