// Large Input File Generator
//
// This tool generates a large source file for performance testing and
// profiling. It emits a realistic mix of identifiers, numbers, strings,
// operators, and comments to stress-test a generated lexer.
//
// Usage:
//
//	go run main.go > large.src
//	go run main.go 20000000 > large.src  # Specify target size in bytes
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

const (
	defaultTargetSize = 10 * 1024 * 1024 // 10MB
)

var (
	keywords = []string{
		"if", "else", "for", "while", "return", "break", "continue",
		"func", "var", "const", "type", "struct", "switch", "case",
	}

	identifiers = []string{
		"total", "count", "index", "buffer", "result", "value",
		"input", "output", "line", "column", "state", "token",
		"next", "prev", "head", "tail", "left", "right",
		"parseExpr", "scanToken", "emitByte", "readAll",
		"maxRetries", "isValid", "hasNext", "x", "y", "i", "j", "n",
	}

	operators = []string{
		"+", "-", "*", "/", "%", "=", "==", "!=", "<", ">", "<=", ">=",
		"&&", "||", "!", "&", "|", "^", "<<", ">>", "+=", "-=", ":=",
		"(", ")", "[", "]", "{", "}", ",", ";", ".",
	}

	stringWords = []string{
		"hello", "world", "error", "unexpected token", "done",
		"reading input", "open failed", "retrying", "ok",
	}

	commentTexts = []string{
		"fast path", "bounds already checked", "see scan loop",
		"overflow is impossible here", "keep in sync with the header",
	}
)

func main() {
	targetSize := defaultTargetSize
	if len(os.Args) > 1 {
		if size, err := strconv.Atoi(os.Args[1]); err == nil {
			targetSize = size
		}
	}

	bytesWritten := 0
	tokenCount := 0
	column := 0

	emit := func(text string, tokens int) {
		fmt.Print(text)
		bytesWritten += len(text)
		tokenCount += tokens
		column += len(text)
		if column > 70 {
			fmt.Println()
			bytesWritten++
			column = 0
		}
	}

	for bytesWritten < targetSize {
		// Mix token shapes roughly like hand-written source.
		switch rand.Intn(10) {
		case 0, 1, 2: // 30% - Identifier
			emit(identifiers[rand.Intn(len(identifiers))]+" ", 1)

		case 3: // 10% - Keyword
			emit(keywords[rand.Intn(len(keywords))]+" ", 1)

		case 4, 5: // 20% - Integer literal
			emit(fmt.Sprintf("%d ", rand.Intn(1000000)), 1)

		case 6: // 10% - Float literal
			emit(fmt.Sprintf("%.4f ", rand.Float64()*10000), 1)

		case 7: // 10% - String literal, occasionally with escapes
			word := stringWords[rand.Intn(len(stringWords))]
			if rand.Intn(4) == 0 {
				word += `\n`
			}
			emit(fmt.Sprintf("%q ", word), 1)

		case 8: // 10% - Operator run
			emit(operators[rand.Intn(len(operators))]+" ", 1)

		case 9: // 10% - Line comment, forces a newline
			text := commentTexts[rand.Intn(len(commentTexts))]
			emit("// "+text+"\n", 1)
			column = 0
		}

		// Occasional blank line and indentation, so the lexer sees
		// multi-byte whitespace runs too.
		if rand.Intn(20) == 0 {
			indent := strings.Repeat("\t", rand.Intn(3))
			emit("\n"+indent, 0)
			column = len(indent)
		}
	}

	fmt.Fprintf(os.Stderr, "\nGenerated %d bytes with %d tokens\n", bytesWritten, tokenCount)
}
