package importpath

import "testing"

func TestNormalizeRelative(t *testing.T) {
	cases := []struct {
		raw       string
		importing string
		want      string
	}{
		{"./util.sol", "contracts/main.sol", "contracts/util.sol"},
		{"../lib/math.sol", "contracts/main.sol", "lib/math.sol"},
		{"./a/./b.sol", "src/x/main.sol", "src/x/a/b.sol"},
		{"./sub/../peer.sol", "src/main.sol", "src/peer.sol"},
		{"./util.sol", "main.sol", "util.sol"},
		{".\\util.sol", "contracts\\main.sol", "contracts/util.sol"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.raw, tc.importing); got != tc.want {
			t.Fatalf("Normalize(%q, %q) = %q, want %q", tc.raw, tc.importing, got, tc.want)
		}
	}
}

func TestNormalizeBarePassthrough(t *testing.T) {
	for _, raw := range []string{"openzeppelin/token.sol", "lib.sol", "a/b/c.sol"} {
		if got := Normalize(raw, "contracts/main.sol"); got != raw {
			t.Fatalf("Normalize(%q) = %q, want passthrough", raw, got)
		}
	}
}

func TestNormalizeConvergesFromDifferentImporters(t *testing.T) {
	a := Normalize("./shared.sol", "src/a.sol")
	b := Normalize("../src/shared.sol", "src/deep/b.sol")
	if a != b {
		t.Fatalf("identifiers diverge: %q vs %q", a, b)
	}
}

func TestGlobalName(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/proj/contracts/main.sol", "contracts/main.sol"},
		{"/proj/node_modules/ozlib/token.sol", "ozlib/token.sol"},
		{"/proj/lib/math/safe.sol", "math/safe.sol"},
		{"/proj/main.sol", "main.sol"},
	}
	for _, tc := range cases {
		got, err := GlobalName(tc.path, "/proj", []string{"node_modules", "lib"})
		if err != nil {
			t.Fatalf("GlobalName(%q): %v", tc.path, err)
		}
		if got != tc.want {
			t.Fatalf("GlobalName(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestGlobalNameKeepsBareDepsDirPath(t *testing.T) {
	// A file literally named like a deps dir must not collapse to "".
	got, err := GlobalName("/proj/node_modules", "/proj", []string{"node_modules"})
	if err != nil {
		t.Fatalf("GlobalName: %v", err)
	}
	if got != "node_modules" {
		t.Fatalf("GlobalName = %q, want %q", got, "node_modules")
	}
}
