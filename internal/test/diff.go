package test

import (
	"strings"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorDim   = "\033[37m"
)

func Diff(old string, new string, color bool) string {
	var sb strings.Builder
	for _, line := range diffRec(nil, strings.Split(old, "\n"), strings.Split(new, "\n")) {
		prefix, style := " ", colorDim
		switch line.op {
		case '-':
			prefix, style = "-", colorRed
		case '+':
			prefix, style = "+", colorGreen
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		if color {
			sb.WriteString(style)
		}
		sb.WriteString(prefix)
		sb.WriteString(line.text)
		if color {
			sb.WriteString(colorReset)
		}
	}
	return sb.String()
}

type diffLine struct {
	op   byte
	text string
}

// A simple recursive line diff: keep the longest common run of lines and
// recurse on both sides of it
func diffRec(result []diffLine, old []string, new []string) []diffLine {
	o, n, common := longestCommonRun(old, new)

	if common == 0 {
		for _, line := range old {
			result = append(result, diffLine{'-', line})
		}
		for _, line := range new {
			result = append(result, diffLine{'+', line})
		}
		return result
	}

	result = diffRec(result, old[:o], new[:n])
	for _, line := range old[o : o+common] {
		result = append(result, diffLine{' ', line})
	}
	return diffRec(result, old[o+common:], new[n+common:])
}

// From: https://en.wikipedia.org/wiki/Longest_common_substring_problem
func longestCommonRun(a []string, b []string) (int, int, int) {
	prev := make([]int, len(b)+1)
	next := make([]int, len(b)+1)
	best, endA, endB := 0, 0, 0

	for i := range a {
		for j := range b {
			if a[i] == b[j] {
				next[j+1] = prev[j] + 1
				if next[j+1] > best {
					best, endA, endB = next[j+1], i+1, j+1
				}
			} else {
				next[j+1] = 0
			}
		}
		prev, next = next, prev
	}

	return endA - best, endB - best, best
}
