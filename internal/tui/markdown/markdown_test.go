package markdown

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestRenderEmpty(t *testing.T) {
	for _, src := range []string{"", "   ", "\n\n"} {
		if got := Render(src, 80); got != "" {
			t.Errorf("Render(%q) = %q, want empty", src, got)
		}
	}
}

func TestRenderBlocks(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
		not  []string
	}{
		{
			name: "soft breaks reflow",
			src:  "Buy milk\nand eggs",
			want: []string{"Buy milk and eggs"},
		},
		{
			name: "heading",
			src:  "# Groceries\n\nBuy milk",
			want: []string{"Groceries", "Buy milk"},
			not:  []string{"#"},
		},
		{
			name: "emphasis markers removed",
			src:  "This is **very** _important_ and ~~done~~",
			want: []string{"This is very important and done"},
			not:  []string{"**", "~~"},
		},
		{
			name: "bullet list",
			src:  "- one\n- two",
			want: []string{"• one", "• two"},
		},
		{
			name: "ordered list keeps start",
			src:  "3. three\n4. four",
			want: []string{"3. three", "4. four"},
		},
		{
			name: "task list",
			src:  "- [x] done\n- [ ] todo",
			want: []string{"[x] done", "[ ] todo"},
		},
		{
			name: "code span",
			src:  "run `make test` first",
			want: []string{"run make test first"},
			not:  []string{"`"},
		},
		{
			name: "fenced code",
			src:  "```\nfmt.Println(1)\n```",
			want: []string{"fmt.Println(1)"},
			not:  []string{"```"},
		},
		{
			name: "link shows destination",
			src:  "see [docs](https://example.test/docs)",
			want: []string{"docs", "(https://example.test/docs)"},
		},
		{
			name: "autolink",
			src:  "<https://example.test>",
			want: []string{"https://example.test"},
			not:  []string{"<", ">"},
		},
		{
			name: "blockquote",
			src:  "> quoted",
			want: []string{"│ quoted"},
		},
		{
			name: "html stripped",
			src:  "hello <b>world</b>",
			want: []string{"hello world"},
		},
		{
			name: "table",
			src:  "| a | b |\n|---|---|\n| 1 | 2 |",
			want: []string{"a │ b", "1 │ 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlainText(tt.src, 80)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
			for _, n := range tt.not {
				if strings.Contains(got, n) {
					t.Errorf("output should not contain %q:\n%s", n, got)
				}
			}
		})
	}
}

func TestRenderWraps(t *testing.T) {
	src := strings.Repeat("word ", 40)
	got := PlainText(src, 30)

	lines := strings.Split(got, "\n")
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %d line(s)", len(lines))
	}
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > 30 {
			t.Errorf("line width %d exceeds 30: %q", w, line)
		}
	}
}

func TestRenderIsStyled(t *testing.T) {
	got := Render("# Title", 40)
	if got == ansi.Strip(got) {
		t.Error("Render should emit ANSI styling")
	}
}

func TestStripTags(t *testing.T) {
	if got := stripTags("<p>a <i>b</i></p>"); got != "a b" {
		t.Errorf("stripTags = %q", got)
	}
}
