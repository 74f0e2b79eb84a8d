package fit

import (
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/John-Robertt/latekan/internal/domain"
	"github.com/John-Robertt/latekan/internal/title"
)

func TestTrim(t *testing.T) {
	cases := []struct {
		s    string
		n    int
		want string
	}{
		{"abcdef", 3, "abc"},
		{"ab", 5, "ab"},
		{"anything", 0, ""},
		{"anything", -4, ""},
		{"新DOCTOR PRICE", 10, "新DOCTOR PR"},
		{"字デ新相棒", 3, "字デ新"},
		{"", 3, ""},
		{"abc", 3, "abc"},
	}
	for _, tc := range cases {
		if got := Trim(tc.s, tc.n); got != tc.want {
			t.Fatalf("Trim(%q,%d) 期望 %q，实际 %q", tc.s, tc.n, tc.want, got)
		}
	}
}

func TestTrimWidth(t *testing.T) {
	cases := []struct {
		s    string
		n    int
		want string
	}{
		{"相棒水谷豊", 4, "相棒"},
		{"相棒水谷豊", 5, "相棒"},
		{"ABC相棒", 4, "ABC"},
		{"ABC相棒", 5, "ABC相"},
		{"ｱｲｳ", 2, "ｱｲ"},
		{"x", 0, ""},
	}
	for _, tc := range cases {
		if got := TrimWidth(tc.s, tc.n); got != tc.want {
			t.Fatalf("TrimWidth(%q,%d) 期望 %q，实际 %q", tc.s, tc.n, tc.want, got)
		}
	}
	if w := StringWidth("新DOCTOR"); w != 8 {
		t.Fatalf("StringWidth 期望 8，实际 %d", w)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeRune, "rune": ModeRune, " WIDTH ": ModeWidth} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) 期望 %q，实际 %q err=%v", in, want, got, err)
		}
	}
	if _, err := ParseMode("bytes"); err == nil {
		t.Fatalf("期望非法 mode 报错")
	}
}

func TestGenerateIdeas_PriorityOrder(t *testing.T) {
	got := GenerateIdeas("相棒", "", "水谷豊、寺脇康文、鈴木砂羽", domain.MarkSet{}, 30)
	want := []string{
		"相棒水谷豊、寺脇康文、鈴木砂羽",
		"相棒水谷豊、寺脇康文",
		"相棒",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("案不符 (-want +got):\n%s", diff)
	}
}

func TestGenerateIdeas_EmptyCastCollapses(t *testing.T) {
	got := GenerateIdeas("相棒", "", "", domain.MarkSet{New: true}, 20)
	if diff := cmp.Diff([]string{"新相棒"}, got); diff != "" {
		t.Fatalf("空出演者应只剩 1 条 (-want +got):\n%s", diff)
	}
}

func TestGenerateIdeas_WidthModeWideHeadDoesNotFit(t *testing.T) {
	f := Fitter{Mode: ModeWidth}
	if got := f.GenerateIdeas("相棒", "", "", domain.MarkSet{}, 1); len(got) != 0 {
		t.Fatalf("宽度 1 放不下全角字，期望无案，实际 %q", got)
	}
	if got := f.GenerateIdeas("相棒", "", "", domain.MarkSet{}, 2); !cmp.Equal([]string{"相"}, got) {
		t.Fatalf("宽度 2 期望 [相]，实际 %q", got)
	}
}

func TestGenerateIdeas_UsesShortTitleForCompactLengths(t *testing.T) {
	got := GenerateIdeas("DOCTOR PRICE", "ドクプラ", "田中太郎、山田花子", domain.MarkSet{}, 10)
	if len(got) == 0 || got[len(got)-1] != "ドクプラ" {
		t.Fatalf("length=10 应使用短缩标题，实际 %q", got)
	}
}

func TestGenerateIdeas_TruncationDedup(t *testing.T) {
	// 截断到 3 字后三条候选全部相同，只保留 1 条。
	got := GenerateIdeas("ABCDEF", "", "田中、山田、鈴木", domain.MarkSet{}, 3)
	if diff := cmp.Diff([]string{"ABC"}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestGenerateIdeas_NonPositiveLength(t *testing.T) {
	for _, n := range []int{0, -1} {
		if got := GenerateIdeas("A", "", "B", domain.MarkSet{}, n); len(got) != 0 {
			t.Fatalf("length=%d 期望无案，实际 %q", n, got)
		}
	}
}

func TestGenerateIdeas_Invariants(t *testing.T) {
	titles := []string{"", "相棒", "DOCTOR PRICE", "とても長い番組タイトルのテスト"}
	shorts := []string{"", "短縮"}
	casts := []string{"", "田中", "田中、山田", "田中、山田、鈴木、佐藤"}
	marks := []domain.MarkSet{{}, {Subtitled: true, Final: true}, {Subtitled: true, Dubbed: true, New: true, Final: true}}
	lengths := []int{-1, 0, 1, 3, 4, 5, 10, 11, 40}

	for _, f := range []Fitter{{Mode: ModeRune}, {Mode: ModeWidth}} {
		for _, tt := range titles {
			for _, st := range shorts {
				for _, c := range casts {
					for _, m := range marks {
						for _, l := range lengths {
							got := f.GenerateIdeas(tt, st, c, m, l)
							if len(got) > MaxIdeas {
								t.Fatalf("案数超过 %d：%q", MaxIdeas, got)
							}
							seen := map[string]struct{}{}
							for _, s := range got {
								if s == "" {
									t.Fatalf("不应包含空案")
								}
								if utf8.RuneCountInString(s) > l {
									t.Fatalf("mode=%s length=%d 超长：%q", f.Mode, l, s)
								}
								if _, dup := seen[s]; dup {
									t.Fatalf("重复的案：%q in %q", s, got)
								}
								seen[s] = struct{}{}
							}
							composable := title.Select(l, tt, st) != "" || m != (domain.MarkSet{})
							// 宽度模式下首个全角字符可能放不下，此时允许无案。
							if f.Mode == ModeRune && c == "" && composable && l > 0 && len(got) != 1 {
								t.Fatalf("空出演者应只剩 1 条：%q", got)
							}
						}
					}
				}
			}
		}
	}
}
