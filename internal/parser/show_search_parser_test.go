package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/models"
	"github.com/Belphemur/ShowFinder/internal/testutil"
)

const testFallback = "https://example.com/missing.png"

func TestShowSearchParser_BatmanScenario(t *testing.T) {
	body := testutil.GenerateSearchResponseJSON([]testutil.ShowResultOptions{
		{ID: 1, Name: "Batman", Summary: testutil.StringPtr("<p>hero</p>")},
	})

	shows, err := NewShowSearchParser(testFallback).Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	expected := []models.Show{{ID: 1, Name: "Batman", Summary: "<p>hero</p>", Image: testFallback}}
	if len(shows) != len(expected) {
		t.Fatalf("Expected %d shows, got %d", len(expected), len(shows))
	}
	if shows[0] != expected[0] {
		t.Errorf("Expected %+v, got %+v", expected[0], shows[0])
	}
}

func TestShowSearchParser_ImageSelection(t *testing.T) {
	body := testutil.GenerateSearchResponseJSON([]testutil.ShowResultOptions{
		{ID: 975, Name: "The Batman", ImageMedium: "https://static.tvmaze.com/uploads/images/medium_portrait/6/16463.jpg"},
		{ID: 976, Name: "Batman Beyond"},
		{ID: 977, Name: "Batman: The Animated Series", ImageMedium: "https://static.tvmaze.com/uploads/images/medium_portrait/1/2.jpg"},
	})

	shows, err := NewShowSearchParser(testFallback).Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	expectedImages := []string{
		"https://static.tvmaze.com/uploads/images/medium_portrait/6/16463.jpg",
		testFallback,
		"https://static.tvmaze.com/uploads/images/medium_portrait/1/2.jpg",
	}
	for i, show := range shows {
		if show.Image != expectedImages[i] {
			t.Errorf("Show %d: expected image %q, got %q", show.ID, expectedImages[i], show.Image)
		}
		if show.Image == "" {
			t.Errorf("Show %d: image must never be empty", show.ID)
		}
	}
}

func TestShowSearchParser_PreservesOrder(t *testing.T) {
	body := testutil.GenerateSearchResponseJSON([]testutil.ShowResultOptions{
		{ID: 30, Name: "C", Score: 0.3},
		{ID: 10, Name: "A", Score: 0.9},
		{ID: 20, Name: "B", Score: 0.5},
	})

	shows, err := NewShowSearchParser(testFallback).Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	expectedIDs := []int{30, 10, 20}
	for i, id := range expectedIDs {
		if shows[i].ID != id {
			t.Errorf("Position %d: expected ID %d, got %d", i, id, shows[i].ID)
		}
	}
}

func TestShowSearchParser_NullSummary(t *testing.T) {
	body := testutil.GenerateSearchResponseJSON([]testutil.ShowResultOptions{{ID: 5, Name: "No Summary"}})

	shows, err := NewShowSearchParser(testFallback).Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if shows[0].Summary != "" {
		t.Errorf("Expected empty summary for null, got %q", shows[0].Summary)
	}
}

func TestShowSearchParser_EmptyImageMediumUsesFallback(t *testing.T) {
	body := `[{"score":1,"show":{"id":7,"name":"Blank","summary":null,"image":{"medium":"","original":""}}}]`

	shows, err := NewShowSearchParser(testFallback).Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if shows[0].Image != testFallback {
		t.Errorf("Expected fallback image, got %q", shows[0].Image)
	}
}

func TestShowSearchParser_EmptyResponse(t *testing.T) {
	shows, err := NewShowSearchParser(testFallback).Parse(strings.NewReader("[]"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(shows) != 0 {
		t.Errorf("Expected no shows, got %d", len(shows))
	}
}

func TestShowSearchParser_DefaultFallback(t *testing.T) {
	body := testutil.GenerateSearchResponseJSON([]testutil.ShowResultOptions{{ID: 1, Name: "Batman"}})

	shows, err := NewShowSearchParser("").Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if shows[0].Image != "https://tinyurl.com/tv-missing" {
		t.Errorf("Expected default fallback image, got %q", shows[0].Image)
	}
}

func TestShowSearchParser_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>oops</html>"},
		{name: "object instead of array", body: `{"show":{}}`},
		{name: "missing show object", body: `[{"score":1}]`},
		{name: "null show object", body: `[{"score":1,"show":null}]`},
		{name: "truncated", body: `[{"score":1,"show":{"id":1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShowSearchParser(testFallback).Parse(strings.NewReader(tt.body))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !errors.Is(err, &apperrors.ErrMalformedResponse{}) {
				t.Errorf("Expected ErrMalformedResponse, got %T: %v", err, err)
			}
		})
	}
}
