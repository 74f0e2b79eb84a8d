package title

import "testing"

func TestPreferLatin(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"DOCTOR PRICE（ドクタープライス）", "DOCTOR PRICE"},
		{"DOCTOR PRICE (ドクタープライス)", "DOCTOR PRICE"},
		{"DOCTOR PRICE（ドクタープライス)", "DOCTOR PRICE"},
		{"THE（ザ）SHOW（ショー）", "THE SHOW"},
		{"NEWS (ニュース) 7", "NEWS 7"},
		{"相棒（あいぼう）", "相棒（あいぼう）"},
		{"ドクタープライス", "ドクタープライス"},
		{"  HERO  ", "HERO"},
	}
	for _, tc := range cases {
		if got := PreferLatin(tc.in); got != tc.want {
			t.Fatalf("PreferLatin(%q) 期望 %q，实际 %q", tc.in, tc.want, got)
		}
	}
}

func TestPreferLatin_Idempotent(t *testing.T) {
	inputs := []string{
		"DOCTOR PRICE（ドクタープライス）",
		"A (b) C (d)",
		"相棒（あいぼう）",
		"X（（nested））",
		"(only)",
		"",
	}
	for _, in := range inputs {
		once := PreferLatin(in)
		twice := PreferLatin(once)
		if once != twice {
			t.Fatalf("PreferLatin 不是幂等的：%q => %q => %q", in, once, twice)
		}
	}
}

func TestPreferLatin_NonLatinUnchanged(t *testing.T) {
	in := "科捜研の女（かそうけんのおんな）"
	if got := PreferLatin(in); got != in {
		t.Fatalf("不含拉丁字母的标题应原样返回：%q", got)
	}
}

func TestSelect(t *testing.T) {
	if got := Select(10, "FULL TITLE", "短縮"); got != "短縮" {
		t.Fatalf("length=10 期望短缩标题，实际 %q", got)
	}
	if got := Select(11, "FULL TITLE", "短縮"); got != "FULL TITLE" {
		t.Fatalf("length=11 期望正式标题，实际 %q", got)
	}
	if got := Select(5, "FULL", ""); got != "FULL" {
		t.Fatalf("无短缩标题时期望正式标题，实际 %q", got)
	}
	if got := Select(0, "FULL", "S"); got != "S" {
		t.Fatalf("length=0 仍按 <=10 规则选择短缩标题，实际 %q", got)
	}
}

func TestResolveShort(t *testing.T) {
	if got := ResolveShort("  手入力 ", "B41"); got != "手入力" {
		t.Fatalf("手工输入应优先，实际 %q", got)
	}
	if got := ResolveShort("   ", "B41"); got != "B41" {
		t.Fatalf("空白手工输入应回退到表格值，实际 %q", got)
	}
	if got := ResolveShort("", ""); got != "" {
		t.Fatalf("都为空应返回空串，实际 %q", got)
	}
}
