package goody

import (
	"slices"
	"strings"
	"testing"
	"unicode"

	"apack/common"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		lang    common.Language
		source  string
		headers []string
		body    string
	}{
		{
			name:    "java imports deduplicated",
			lang:    common.LanguageJava,
			source:  "import java.util.*;\nimport java.util.function.Function;\nimport java.util.*;\n\nclass UnionFind {\n    int[] parent;\n}\n",
			headers: []string{"import java.util.*;", "import java.util.function.Function;"},
			body:    "class UnionFind {\n    int[] parent;\n}",
		},
		{
			name:    "java static import and trailing comment",
			lang:    common.LanguageJava,
			source:  "import static java.lang.Math.max;   \nimport java.util.List; // lists\nint f() { return max(1, 2); }",
			headers: []string{"import static java.lang.Math.max;", "import java.util.List; // lists"},
			body:    "int f() { return max(1, 2); }",
		},
		{
			name:    "java import inside block comment",
			lang:    common.LanguageJava,
			source:  "/*\nimport fake.Thing;\n*/\nimport real.Thing;\nclass A {}",
			headers: []string{"import real.Thing;"},
			body:    "/*\nimport fake.Thing;\n*/\nclass A {}",
		},
		{
			name:   "java import without semicolon is body",
			lang:   common.LanguageJava,
			source: "import java.util.List\nclass A {}",
			body:   "import java.util.List\nclass A {}",
		},
		{
			name:    "kotlin alias and wildcard",
			lang:    common.LanguageKotlin,
			source:  "import kotlin.math.max\nimport kotlin.math.min as minimum\nimport java.util.*\n\nfun clamp(x: Int) = max(0, minimum(x, 10))",
			headers: []string{"import kotlin.math.max", "import kotlin.math.min as minimum", "import java.util.*"},
			body:    "fun clamp(x: Int) = max(0, minimum(x, 10))",
		},
		{
			name:    "kotlin raw string",
			lang:    common.LanguageKotlin,
			source:  "val s = \"\"\"\nimport not.a.Header\n\"\"\"\nimport real.Header",
			headers: []string{"import real.Header"},
			body:    "val s = \"\"\"\nimport not.a.Header\n\"\"\"",
		},
		{
			name:    "python",
			lang:    common.LanguagePython3,
			source:  "from collections import defaultdict\nimport heapq\nfrom typing import (List,\n    Dict)\n\ndef f():\n    import os\n    return 1\n\"\"\"\nimport fake\n\"\"\"\n",
			headers: []string{"from collections import defaultdict", "import heapq"},
			body:    "from typing import (List,\n    Dict)\n\ndef f():\n    import os\n    return 1\n\"\"\"\nimport fake\n\"\"\"",
		},
		{
			name:    "python forms",
			lang:    common.LanguagePython3,
			source:  "import numpy as np  # noqa\nimport os.path as osp, sys\nfrom . import sibling\nfrom ..pkg.mod import a as b, c\nfrom typing import (List, Dict)\nfrom __future__ import annotations\nfrom math import *\nx = 1",
			headers: []string{"import numpy as np  # noqa", "import os.path as osp, sys", "from . import sibling", "from ..pkg.mod import a as b, c", "from typing import (List, Dict)", "from __future__ import annotations", "from math import *"},
			body:    "x = 1",
		},
		{
			name:    "python crlf",
			lang:    common.LanguagePython3,
			source:  "import os\r\nimport sys\r\n\r\nprint(1)\r\n",
			headers: []string{"import os", "import sys"},
			body:    "print(1)",
		},
		{
			name:    "typescript",
			lang:    common.LanguageTypescript,
			source:  "import { foo } from 'lib';\nimport type { Bar } from './bar';\nimport x = require(\"x\");\nimport.meta.url;\nimport('dyn').then(() => {});\nfunction a() {}",
			headers: []string{"import { foo } from 'lib';", "import type { Bar } from './bar';", "import x = require(\"x\");"},
			body:    "import.meta.url;\nimport('dyn').then(() => {});\nfunction a() {}",
		},
		{
			name:    "javascript attributes and side effect import",
			lang:    common.LanguageJavascript,
			source:  "import data from './data.json' with { type: 'json' };\nimport './polyfill.js'\nimport * as path from \"node:path\"; // std\nconsole.log(data);",
			headers: []string{"import data from './data.json' with { type: 'json' };", "import './polyfill.js'", "import * as path from \"node:path\"; // std"},
			body:    "console.log(data);",
		},
		{
			name:    "javascript template literal",
			lang:    common.LanguageJavascript,
			source:  "const t = `\nimport { x } from 'y';\n`;\nimport { z } from 'w';",
			headers: []string{"import { z } from 'w';"},
			body:    "const t = `\nimport { x } from 'y';\n`;",
		},
		{
			name:   "javascript multi line import stays in body",
			lang:   common.LanguageJavascript,
			source: "import {\n  a,\n  b,\n} from 'mod';\nexport const c = 1;",
			body:   "import {\n  a,\n  b,\n} from 'mod';\nexport const c = 1;",
		},
		{
			name:   "javascript two statements on one line",
			lang:   common.LanguageJavascript,
			source: "import a from 'a'; run(a);",
			body:   "import a from 'a'; run(a);",
		},
		{
			name:   "identifier starting with import",
			lang:   common.LanguageTypescript,
			source: "importantValue = 1;",
			body:   "importantValue = 1;",
		},
		{
			name:    "only headers",
			lang:    common.LanguageTypescript,
			source:  "\nimport { foo } from 'lib';\n\n",
			headers: []string{"import { foo } from 'lib';"},
			body:    "",
		},
		{
			name:   "no headers",
			lang:   common.LanguagePython3,
			source: "\n\n  def f():\n    return 1\n\n",
			body:   "  def f():\n    return 1",
		},
		{
			name:    "indented first body line",
			lang:    common.LanguagePython3,
			source:  "import os\n    x = 1\ny",
			headers: []string{"import os"},
			body:    "    x = 1\ny",
		},
		{
			name:    "blank lines between headers and indented body",
			lang:    common.LanguageJava,
			source:  "import java.util.*;\n\n \t\n\tint x;  \n\n",
			headers: []string{"import java.util.*;"},
			body:    "\tint x;",
		},
		{
			name:   "empty",
			lang:   common.LanguageJava,
			source: "",
			body:   "",
		},
		{
			name:   "unknown language",
			lang:   common.Language("cobol"),
			source: "import java.util.*;\nDISPLAY 'X'.",
			body:   "import java.util.*;\nDISPLAY 'X'.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Extract(tt.lang, tt.source)
			if !slices.Equal(f.Headers, tt.headers) {
				t.Errorf("Extract() headers = %q, want %q", f.Headers, tt.headers)
			}
			if f.Body != tt.body {
				t.Errorf("Extract() body = %q, want %q", f.Body, tt.body)
			}
		})
	}
}

func TestExtract_NoHeaderSyntax(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"}}}{{{ )( ",
		"\x00\xff\xfe binary",
		"import",
		"import;",
		"from",
		"from x",
		"   import java.util.*;",
		"\"\"\"unterminated",
		"`unterminated",
		"/* never closed",
		"'quote \\' \" mix",
		strings.Repeat("(", 1000),
		"\r\n\t hello \r\n",
	}
	for _, lang := range append(allLanguages(), common.Language("")) {
		for _, in := range inputs {
			f := Extract(lang, in)
			if len(f.Headers) != 0 {
				t.Errorf("Extract(%s, %q) headers = %q, want none", lang, in, f.Headers)
			}
			if want := strings.TrimSpace(in); strings.TrimSpace(f.Body) != want {
				t.Errorf("Extract(%s, %q) body = %q, want %q", lang, in, f.Body, want)
			}
			if strings.HasPrefix(f.Body, "\n") || strings.TrimRightFunc(f.Body, unicode.IsSpace) != f.Body {
				t.Errorf("Extract(%s, %q) body = %q is not trimmed", lang, in, f.Body)
			}
		}
	}
}

func allLanguages() []common.Language {
	var langs []common.Language
	for _, name := range common.LanguageNames() {
		l, _ := common.ParseLanguage(name)
		langs = append(langs, l)
	}
	return langs
}

func TestHeaderRulesCoverAllLanguages(t *testing.T) {
	for _, lang := range allLanguages() {
		if rule, ok := headerRules[lang]; !ok || rule.isHeader == nil {
			t.Errorf("no header rule for %s", lang)
		}
	}
}

func TestRuleAdvance(t *testing.T) {
	rule := headerRules[common.LanguageJava]
	tests := []struct {
		name   string
		line   string
		inside int
		want   int
	}{
		{"plain", "int x = 1;", -1, -1},
		{"opens comment", "int x = 1; /* start", -1, 0},
		{"closes comment", "end */ int y;", 0, -1},
		{"comment marker in string", `String s = "/*";`, -1, -1},
		{"line comment hides opener", "x++; // /* not a comment", -1, -1},
		{"text block", `String s = """`, -1, 1},
		{"escaped quotes in text block", `a \""" b`, 1, 1},
		{"text block closes", `  """;`, 1, -1},
		{"still inside", "nothing here", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rule.advance(tt.line, tt.inside); got != tt.want {
				t.Errorf("advance(%q, %d) = %d, want %d", tt.line, tt.inside, got, tt.want)
			}
		})
	}
}
