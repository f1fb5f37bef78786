package models

import (
	"errors"
	"strings"
	"testing"
)

func TestNewRecordDefaultsToPending(t *testing.T) {
	rec := NewRecord("Harvest", "Neil Young")
	if rec.Status != StatusPending {
		t.Errorf("Expected pendente, got %q", rec.Status)
	}
	if !rec.PublishedAt.IsZero() {
		t.Errorf("Expected zero publish time, got %v", rec.PublishedAt)
	}
}

func TestPlaceholderRecord(t *testing.T) {
	rec := PlaceholderRecord("front.jpg", "back.jpg", errors.New("unparseable response"))

	if rec.Name != "[Erro na análise]" {
		t.Errorf("Unexpected placeholder name %q", rec.Name)
	}
	if rec.Artist != "[Verificar manualmente]" {
		t.Errorf("Unexpected placeholder artist %q", rec.Artist)
	}
	if !strings.Contains(rec.Description, "unparseable response") {
		t.Errorf("Expected cause in description, got %q", rec.Description)
	}
	if rec.Status != StatusPending {
		t.Errorf("Expected placeholder to stay pendente, got %q", rec.Status)
	}
	if rec.FrontImagePath != "front.jpg" || rec.BackImagePath != "back.jpg" {
		t.Errorf("Expected image paths kept, got %q/%q", rec.FrontImagePath, rec.BackImagePath)
	}
}
