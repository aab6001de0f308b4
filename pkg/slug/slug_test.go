// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/reviewboard/pkg/slug"
)

/*
TestFrom covers accent folding and hyphen collapsing.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Science Fiction", want: "science-fiction"},
		{name: "accents", input: "Café Crème", want: "cafe-creme"},
		{name: "underscore kept", input: "film_noir", want: "film_noir"},
		{name: "punctuation collapses", input: "  Rock -- & Roll!! ", want: "rock-roll"},
		{name: "nothing survives", input: "!!!", want: ""},
		{name: "non latin dropped", input: "Фильм 2", want: "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
