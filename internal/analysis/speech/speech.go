package speech

import (
	"math"
	"regexp"
	"strings"
)

// FillerWords is the fixed disfluency vocabulary. Multi-word entries match as
// contiguous phrases, never as substrings.
var FillerWords = []string{"um", "uh", "like", "you know", "basically", "actually", "literally", "so", "well"}

var fillerPatterns = buildFillerPatterns()

func buildFillerPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(FillerWords))
	for _, filler := range FillerWords {
		patterns[filler] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(filler) + `\b`)
	}
	return patterns
}

type FillerWordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// DetectFillerWords counts case-insensitive whole-word occurrences of each
// vocabulary entry, in vocabulary order. Entries with zero occurrences are
// omitted.
func DetectFillerWords(transcript string) []FillerWordCount {
	var results []FillerWordCount
	for _, filler := range FillerWords {
		matches := fillerPatterns[filler].FindAllStringIndex(transcript, -1)
		if len(matches) > 0 {
			results = append(results, FillerWordCount{Word: filler, Count: len(matches)})
		}
	}
	return results
}

// TotalFillerCount sums the occurrence counts of every detected filler.
func TotalFillerCount(counts []FillerWordCount) int {
	total := 0
	for _, fw := range counts {
		total += fw.Count
	}
	return total
}

// CalculateWordsPerMinute splits the transcript on whitespace and normalizes
// by elapsed minutes. A zero duration yields 0.
func CalculateWordsPerMinute(transcript string, durationSeconds int) int {
	if durationSeconds == 0 {
		return 0
	}
	words := strings.Fields(transcript)
	minutes := float64(durationSeconds) / 60
	return int(math.Round(float64(len(words)) / minutes))
}
