// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package insight maps backend ML insights to display labels.
package insight

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jeranaias/bradai-tui/internal/model"
)

// Complexity bucket bounds. A value equal to a bound falls in the lower
// bucket.
const (
	LowMax    = 0.3
	MediumMax = 0.6
)

// Labels used when mapping.
const (
	LabelLow      = "Low"
	LabelMedium   = "Medium"
	LabelHigh     = "High"
	LabelGeneral  = "General"
	TopicSep      = ", "
	maxTopicCount = 2
)

// Display is the label set shown in the insights panel.
type Display struct {
	Sentiment  string
	Topics     string
	Complexity string
}

// Map converts an insight into display labels. A nil insight returns false
// and the caller should leave its display unchanged.
func Map(in *model.MLInsight) (Display, bool) {
	if in == nil {
		return Display{}, false
	}
	return Display{
		Sentiment:  SentimentLabel(in.Sentiment),
		Topics:     TopicLabel(in.Topics),
		Complexity: ComplexityLabel(in.Complexity),
	}, true
}

// SentimentLabel upper-cases the first character and leaves the rest.
func SentimentLabel(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// TopicLabel joins the first two topics, or returns "General".
func TopicLabel(topics []string) string {
	if len(topics) == 0 {
		return LabelGeneral
	}
	if len(topics) > maxTopicCount {
		topics = topics[:maxTopicCount]
	}
	return strings.Join(topics, TopicSep)
}

// ComplexityLabel buckets a [0,1] complexity score.
func ComplexityLabel(c float64) string {
	switch {
	case c > MediumMax:
		return LabelHigh
	case c > LowMax:
		return LabelMedium
	default:
		return LabelLow
	}
}

// Summary is the one-line footer shown under an assistant message, e.g.
// "Sentiment: positive, Topics: go, tui". All topics are listed here.
func Summary(in *model.MLInsight) string {
	if in == nil {
		return ""
	}
	topics := LabelGeneral
	if len(in.Topics) > 0 {
		topics = strings.Join(in.Topics, TopicSep)
	}
	return "Sentiment: " + in.Sentiment + ", Topics: " + topics
}
