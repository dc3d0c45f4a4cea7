package analyzer

import (
	"strings"
	"testing"

	"github.com/orizon-lang/goanalyzer/internal/lexer"
)

const benchSource = `package main

import "fmt"

type Point struct {
	X int
	Y int
}

func (p Point) Sum() int {
	return p.X + p.Y
}

func fibonacci(n int) int {
	if n <= 1 {
		return n
	}
	return fibonacci(n-1) + fibonacci(n-2)
}

func main() {
	nums := []int{1, 2, 3}
	total := 0
	for _, n := range nums {
		total += n
	}
	switch total {
	case 6:
		fmt.Println(fibonacci(total))
	default:
		break
	}
}
`

func BenchmarkTokenize(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		tokens, diags := lexer.Tokenize(benchSource)
		if len(diags) > 0 {
			b.Fatal("lexical errors:", diags)
		}
		_ = tokens
	}
}

func BenchmarkAnalyze(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		if r := Analyze(benchSource); !r.Success {
			b.Fatal("analysis failed:", r.Summary())
		}
	}
}

// Recovery must stay linear on inputs that are mostly errors.
func BenchmarkAnalyzeMalformed(b *testing.B) {
	source := "package main\n" + strings.Repeat("func ( { ] var = ;\n", 200)
	b.ReportAllocs()
	for b.Loop() {
		_ = Analyze(source)
	}
}
