package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "  Homework 1 ", want: "Homework 1"},
		{name: "script removed", in: "HW<script>alert(1)</script>", want: "HW"},
		{name: "tags stripped", in: "<b>Read</b> chapter <i>3</i>", want: "Read chapter 3"},
		{name: "entities kept readable", in: "Q&A < 5", want: "Q&A < 5"},
		{name: "paragraphs do not merge", in: "<p>one</p><p>two</p>", want: "one two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestOptional(t *testing.T) {
	assert.Nil(t, Optional(nil))

	blank := "  <b></b> "
	assert.Nil(t, Optional(&blank))

	good := "<em>nice</em> work"
	got := Optional(&good)
	if assert.NotNil(t, got) {
		assert.Equal(t, "nice work", *got)
	}
}
