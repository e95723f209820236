// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"reflect"
	"strings"
	"testing"
)

func TestField_Normalize(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  []string
	}{
		{"missing", Missing(), []string{}},
		{"zero value is missing", Field{}, []string{}},
		{"scalar", Scalar("Tom Hanks"), []string{"tomhanks"}},
		{"scalar blank", Scalar("   "), []string{}},
		{"list keeps order", List("Drama", "Action", "Drama"), []string{"drama", "action", "drama"}},
		{"list drops empties", List("Sci Fi", "", "\t"), []string{"scifi"}},
		{"empty list", List(), []string{}},
		{"tabs and newlines", Scalar("Jean\tLuc\nGodard"), []string{"jeanlucgodard"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.field.Normalize(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestField_KindAndValues(t *testing.T) {
	if k := Missing().Kind(); k != FieldMissing || k.String() != "missing" {
		t.Errorf("Missing().Kind() = %v", k)
	}
	if k := Scalar("x").Kind(); k != FieldScalar || k.String() != "scalar" {
		t.Errorf("Scalar().Kind() = %v", k)
	}
	if k := List("x").Kind(); k != FieldList || k.String() != "list" {
		t.Errorf("List().Kind() = %v", k)
	}
	if Missing().Values() != nil {
		t.Error("Missing().Values() should be nil")
	}

	src := []string{"a", "b"}
	f := List(src...)
	src[0] = "changed"
	if f.Values()[0] != "a" {
		t.Error("List() must copy its input")
	}
}

func TestSynthesizer_Profile(t *testing.T) {
	s := NewSynthesizer(DefaultSynthesizerConfig())

	item := &ScoredItem{RawItem: RawItem{
		Title:     "Cast Away",
		Cast:      List("Tom Hanks", "Helen Hunt", "Nick Searcy", "Chris Noth"),
		Directors: List("Robert Zemeckis", "Someone Else"),
		Genres:    List("Adventure", "Drama", "Romance"),
	}}

	got := s.Profile(item).Tokens
	want := []string{
		"tomhanks", "helenhunt", "nicksearcy",
		"robertzemeckis", "robertzemeckis",
		"adventure", "drama", "romance",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Profile() = %q, want %q", got, want)
	}
}

func TestSynthesizer_DirectorAlwaysTwice(t *testing.T) {
	s := NewSynthesizer(DefaultSynthesizerConfig())

	tests := []struct {
		name      string
		directors Field
		want      string
	}{
		{"scalar", Scalar("Christopher Nolan"), "christophernolan"},
		{"co-directors use the first", List("Lana Wachowski", "Lilly Wachowski"), "lanawachowski"},
		{"blank first falls through", List(" ", "Sofia Coppola"), "sofiacoppola"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := s.Profile(&ScoredItem{RawItem: RawItem{Directors: tt.directors}})
			count := 0
			for _, tok := range p.Tokens {
				if tok == tt.want {
					count++
				}
			}
			if count != 2 || len(p.Tokens) != 2 {
				t.Errorf("Profile() = %q, want %q exactly twice", p.Tokens, tt.want)
			}
		})
	}
}

func TestSynthesizer_MissingFieldsDegradeGracefully(t *testing.T) {
	s := NewSynthesizer(DefaultSynthesizerConfig())

	p := s.Profile(&ScoredItem{RawItem: RawItem{Title: "Nothing"}})
	if len(p.Tokens) != 0 {
		t.Errorf("Profile() = %q, want empty", p.Tokens)
	}
	if p.Soup() != "" {
		t.Errorf("Soup() = %q, want empty", p.Soup())
	}

	p = s.Profile(&ScoredItem{RawItem: RawItem{Genres: List("Horror")}})
	if !reflect.DeepEqual(p.Tokens, []string{"horror"}) {
		t.Errorf("Profile() = %q, want [horror]", p.Tokens)
	}
}

func TestSynthesizer_GenresNotDeduplicated(t *testing.T) {
	s := NewSynthesizer(DefaultSynthesizerConfig())
	p := s.Profile(&ScoredItem{RawItem: RawItem{Keywords: List("heist", "heist")}})
	if !reflect.DeepEqual(p.Tokens, []string{"heist", "heist"}) {
		t.Errorf("Profile() = %q, want duplicates kept", p.Tokens)
	}
}

func TestSynthesizer_Soup(t *testing.T) {
	s := NewSynthesizer(DefaultSynthesizerConfig())
	p := s.Profile(&ScoredItem{RawItem: RawItem{
		Cast:      List("Tom Hanks"),
		Directors: Scalar("Ron Howard"),
		Genres:    List("Drama"),
	}})
	if got, want := p.Soup(), "tomhanks ronhoward ronhoward drama"; got != want {
		t.Errorf("Soup() = %q, want %q", got, want)
	}
}

func TestSynthesizer_KeywordStemming(t *testing.T) {
	cfg := DefaultSynthesizerConfig()
	cfg.StemKeywords = true
	s := NewSynthesizer(cfg)

	a := s.Profile(&ScoredItem{RawItem: RawItem{Keywords: List("fighting")}})
	b := s.Profile(&ScoredItem{RawItem: RawItem{Keywords: List("fight")}})
	if !reflect.DeepEqual(a.Tokens, b.Tokens) {
		t.Errorf("stemmed tokens differ: %q vs %q", a.Tokens, b.Tokens)
	}

	// genres are never stemmed
	g := s.Profile(&ScoredItem{RawItem: RawItem{Genres: List("Thriller")}})
	if !reflect.DeepEqual(g.Tokens, []string{"thriller"}) {
		t.Errorf("genre tokens = %q, want [thriller]", g.Tokens)
	}
}

type suffixStemmer struct{}

func (suffixStemmer) Stem(w string) string { return strings.TrimSuffix(w, "s") }

func TestSynthesizer_WithStemmer(t *testing.T) {
	s := NewSynthesizer(DefaultSynthesizerConfig()).WithStemmer(suffixStemmer{})
	p := s.Profile(&ScoredItem{RawItem: RawItem{Keywords: List("Car Chases")}})
	if !reflect.DeepEqual(p.Tokens, []string{"carchase"}) {
		t.Errorf("Profile() = %q, want [carchase]", p.Tokens)
	}

	s.WithStemmer(nil)
	p = s.Profile(&ScoredItem{RawItem: RawItem{Keywords: List("Car Chases")}})
	if !reflect.DeepEqual(p.Tokens, []string{"carchases"}) {
		t.Errorf("Profile() without stemmer = %q, want [carchases]", p.Tokens)
	}
}

func TestSynthesizer_MaxCastConfigurable(t *testing.T) {
	cfg := DefaultSynthesizerConfig()
	cfg.MaxCast = 1
	s := NewSynthesizer(cfg)

	p := s.Profile(&ScoredItem{RawItem: RawItem{Cast: List("A B", "C D")}})
	if !reflect.DeepEqual(p.Tokens, []string{"ab"}) {
		t.Errorf("Profile() = %q, want [ab]", p.Tokens)
	}
}
