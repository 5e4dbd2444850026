package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/brodkewitz/brphoto-metadata-tools/internal/imagefile"
)

// Record is one parsed input line in input order.
type Record struct {
	Line        int
	Name        string
	Stem        string
	Description string
}

// Warning flags an accepted line the caller may want to surface.
type Warning struct {
	Line    int
	Message string
}

// Manifest holds the parsed records in input order.
type Manifest struct {
	Records  []Record
	Warnings []Warning
}

const maxLineBytes = 1024 * 1024

// Parse reads tab-delimited text and returns the ordered records. Blank
// lines are skipped. Rows without exactly two tab-separated columns fail
// with MalformedRowError; repeated stems fail with DuplicateStemError after
// the whole input has been read.
func Parse(r io.Reader) (*Manifest, error) {
	doc := &Manifest{}
	occurrences := make(map[string][]Occurrence)
	order := make([]string, 0, 64)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		columns := strings.Split(line, "\t")
		if len(columns) != 2 {
			return nil, &MalformedRowError{
				Line:   lineNo,
				Text:   line,
				Reason: fmt.Sprintf("expected 2 tab-separated columns, found %d", len(columns)),
			}
		}

		name := norm.NFC.String(strings.TrimSpace(columns[0]))
		if name == "" {
			return nil, &MalformedRowError{Line: lineNo, Text: line, Reason: "empty filename column"}
		}
		// Leading whitespace after the tab is part of the description.
		description := norm.NFC.String(strings.TrimRightFunc(columns[1], unicode.IsSpace))
		if description == "" {
			doc.Warnings = append(doc.Warnings, Warning{Line: lineNo, Message: "empty description"})
		}

		stem := imagefile.Stem(name)
		if _, seen := occurrences[stem]; !seen {
			order = append(order, stem)
		}
		occurrences[stem] = append(occurrences[stem], Occurrence{Line: lineNo, Name: name})

		doc.Records = append(doc.Records, Record{
			Line:        lineNo,
			Name:        name,
			Stem:        stem,
			Description: description,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var duplicates []DuplicateStem
	for _, stem := range order {
		if occs := occurrences[stem]; len(occs) > 1 {
			duplicates = append(duplicates, DuplicateStem{Stem: stem, Occurrences: occs})
		}
	}
	if len(duplicates) > 0 {
		sort.Slice(duplicates, func(i, j int) bool {
			return duplicates[i].Occurrences[0].Line < duplicates[j].Occurrences[0].Line
		})
		return nil, &DuplicateStemError{Stems: duplicates}
	}

	return doc, nil
}

// ParseFile opens path and parses it. "-" reads from stdin.
func ParseFile(path string) (*Manifest, error) {
	if path == "-" {
		return Parse(os.Stdin)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()
	return Parse(file)
}
