package html2latex

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"testing"
)

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{
			name:    "explicit takes priority",
			workers: 4,
			want:    4,
		},
		{
			name:    "explicit=1 for sequential",
			workers: 1,
			want:    1,
		},
		{
			name:    "explicit can exceed max",
			workers: 32,
			want:    32,
		},
		{
			name:    "zero uses auto calculation",
			workers: 0,
			want:    min(max(gomaxprocs/cpuDivisor, MinWorkers), MaxWorkers),
		},
		{
			name:    "negative uses auto calculation",
			workers: -3,
			want:    min(max(gomaxprocs/cpuDivisor, MinWorkers), MaxWorkers),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ResolveWorkers(tt.workers)
			if got != tt.want {
				t.Errorf("ResolveWorkers(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestConvertAll_OrderAndIsolation(t *testing.T) {
	t.Parallel()

	conv, err := NewConverter(WithWorkers(4))
	if err != nil {
		t.Fatal(err)
	}

	const n = 40
	fragments := make([]Fragment, n)
	for i := range fragments {
		content := fmt.Sprintf("<b>%d</b>", i)
		if i%7 == 3 {
			content = fmt.Sprintf("<b>%d", i) // unclosed
		}
		fragments[i] = Fragment{ID: fmt.Sprintf("f%02d", i), Content: content}
	}

	results := conv.ConvertAll(context.Background(), fragments)
	if len(results) != n {
		t.Fatalf("len(results) = %d, want %d", len(results), n)
	}

	for i, r := range results {
		if r.Index != i || r.ID != fragments[i].ID {
			t.Errorf("results[%d] = {Index: %d, ID: %q}, want {%d, %q}", i, r.Index, r.ID, i, fragments[i].ID)
		}

		if i%7 == 3 {
			if !errors.Is(r.Err, ErrUnclosedTag) {
				t.Errorf("results[%d].Err = %v, want ErrUnclosedTag", i, r.Err)
			}
			var fe *FragmentError
			if !errors.As(r.Err, &fe) || fe.ID != fragments[i].ID {
				t.Errorf("results[%d].Err = %v, want *FragmentError for %q", i, r.Err, fragments[i].ID)
			}
			if r.LaTeX != "" {
				t.Errorf("results[%d].LaTeX = %q, want empty on failure", i, r.LaTeX)
			}
			continue
		}

		if r.Err != nil {
			t.Errorf("results[%d].Err = %v", i, r.Err)
		}
		if want := fmt.Sprintf(`\textbf{%d}`, i); r.LaTeX != want {
			t.Errorf("results[%d].LaTeX = %q, want %q", i, r.LaTeX, want)
		}
	}

	failed := Failed(results)
	if want := 6; len(failed) != want { // 3, 10, 17, 24, 31, 38
		t.Errorf("len(Failed) = %d, want %d", len(failed), want)
	}
}

func TestConvertAll_MatchesSequential(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"plain & simple",
		"<ul><li>a</li><li><i>b</i></li></ul>",
		"100% <strong>done</strong>",
		"<ol><li>x<ul><li>y</li></ul></li></ol>",
	}

	conv, err := NewConverter(WithWorkers(3))
	if err != nil {
		t.Fatal(err)
	}

	fragments := make([]Fragment, len(inputs))
	for i, in := range inputs {
		fragments[i] = Fragment{ID: fmt.Sprint(i), Content: in}
	}
	results := conv.ConvertAll(context.Background(), fragments)

	for i, in := range inputs {
		want, err := Convert(in)
		if err != nil {
			t.Fatalf("Convert(%q) error: %v", in, err)
		}
		if results[i].LaTeX != want {
			t.Errorf("batch[%d] = %q, sequential = %q", i, results[i].LaTeX, want)
		}
	}
}

func TestConvertAll_Empty(t *testing.T) {
	t.Parallel()

	conv, err := NewConverter()
	if err != nil {
		t.Fatal(err)
	}
	if got := conv.ConvertAll(context.Background(), nil); got != nil {
		t.Errorf("ConvertAll(nil) = %v, want nil", got)
	}
}

func TestConvertAll_CanceledContext(t *testing.T) {
	t.Parallel()

	conv, err := NewConverter(WithWorkers(2))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := conv.ConvertAll(ctx, []Fragment{
		{ID: "a", Content: "x"},
		{ID: "b", Content: "y"},
	})
	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("results[%d].Err = %v, want context.Canceled", i, r.Err)
		}
	}
}
