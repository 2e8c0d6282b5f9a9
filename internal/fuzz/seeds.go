package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

var builtinSeeds = []string{
	"",
	"int x;\n",
	"int y; // trailing\n",
	"/* open\n still open */ int z;\n",
	"/* never closed\n",
	"char *s = \"/* not a comment */\"; // real one\n",
	"c = '\\''; d = \"\\\"//\";\n",
	"void f(void)\n{\n\tint a;\n\ta = 1;\n\tint b;\n}\n",
	"for (int i = 0; i < 10; i++) {}\n",
	"struct s { int n; char data[]; };\n",
	"#define LOG(...) printf(__VA_ARGS__)\n",
	"#include <stdint.h>\nuint32_t v;\n",
	"Forbid();\nx();\nPermit();\n",
	"Permit();\nForbid();\nForbid();\n",
	"ULONG flags = 0; APTR p = 0;\nstrcpy(dst, src);\n",
	"{{{{{{{{{{{{{{{{{{{{{{{{{{{{{{{{{{{{{{{{\n}}}}}\n",
	"x */ y // z\r\n/*\r\n",
	"\xEF\xBB\xBFint bom;\n",
	"/* Gr\xFC\xDFe */\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("testdata", "c")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.c и *.h файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext != ".c" && ext != ".h" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		return append([]byte(nil), src[:maxSeedBytes]...)
	}
	return src
}

func clampInput(input []byte) []byte {
	if len(input) > maxSeedBytes {
		return append([]byte(nil), input[:maxSeedBytes]...)
	}
	return append([]byte(nil), input...)
}
