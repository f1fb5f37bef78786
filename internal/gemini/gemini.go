// Package gemini analyzes vinyl cover photos and writes sales copy using
// the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/discolog/vinylbot/internal/catalog"
	"github.com/discolog/vinylbot/internal/models"
)

// Client wraps a Gemini generative model for image analysis and listing
// generation.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// New creates a Gemini client for the given model name.
func New(ctx context.Context, apiKey, modelName string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{client: client, model: client.GenerativeModel(modelName)}, nil
}

// Close releases the underlying API client.
func (c *Client) Close() error {
	return c.client.Close()
}

// analysis is the structured answer the model is asked to produce.
type analysis struct {
	Name      string   `json:"name"`
	Artist    string   `json:"artist"`
	Year      string   `json:"year"`
	Tracklist []string `json:"tracklist"`
	Label     string   `json:"label"`
	Condition string   `json:"condition"`
	Notes     string   `json:"notes"`
}

const analyzePrompt = `Analyze the front cover (and back cover if provided) of this vinyl record.

Extract the following information:
1. Album name
2. Artist or band name
3. Release year (if visible)
4. Tracklist (if visible on the back cover)
5. Record label (if visible)
6. Apparent condition of the record and sleeve, based on the photos

Return the information as a JSON object:
{
    "name": "album name",
    "artist": "artist name",
    "year": "year or empty string",
    "tracklist": ["list", "of", "tracks"],
    "label": "record label or empty string",
    "condition": "condition description",
    "notes": "other relevant details"
}

Be precise and extract only information visible in the images.`

// AnalyzeImages extracts record metadata from the cover photos. The caller
// decides what to do on failure; the pipeline substitutes a placeholder.
func (c *Client) AnalyzeImages(ctx context.Context, frontPath, backPath string) (*models.Record, error) {
	parts := []genai.Part{genai.Text(analyzePrompt)}

	front, err := imagePart(frontPath)
	if err != nil {
		return nil, err
	}
	parts = append(parts, front)

	if backPath != "" {
		if back, err := imagePart(backPath); err != nil {
			slog.Warn("Skipping unreadable back image", "path", backPath, "err", err)
		} else {
			parts = append(parts, back)
		}
	}

	resp, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze images: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	var result analysis
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &result); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}

	rec := models.NewRecord(result.Name, result.Artist)
	if rec.Name == "" {
		rec.Name = "Desconhecido"
	}
	if rec.Artist == "" {
		rec.Artist = "Desconhecido"
	}
	rec.Year = result.Year
	rec.Condition = result.Condition
	if rec.Condition == "" {
		rec.Condition = "A verificar"
	}
	rec.Description = formatDescription(result)
	rec.FrontImagePath = frontPath
	rec.BackImagePath = backPath

	slog.Info("Analysis complete", "record", rec.Name, "artist", rec.Artist)
	return rec, nil
}

func imagePart(path string) (genai.Part, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" || format == "jpg" {
		format = "jpeg"
	}
	return genai.ImageData(format, data), nil
}

// formatDescription assembles the record description from label, top tracks
// and notes.
func formatDescription(a analysis) string {
	var parts []string

	if a.Label != "" {
		parts = append(parts, "Gravadora: "+a.Label)
	}

	if len(a.Tracklist) > 0 {
		tracks := a.Tracklist
		if len(tracks) > 10 {
			tracks = tracks[:10]
		}
		lines := make([]string, len(tracks))
		for i, t := range tracks {
			lines[i] = "• " + t
		}
		parts = append(parts, "Principais faixas:\n"+strings.Join(lines, "\n"))
	}

	if a.Notes != "" {
		parts = append(parts, "Observações: "+a.Notes)
	}

	return strings.Join(parts, "\n\n")
}

const listingPromptTemplate = `Crie um post atrativo para venda deste disco de vinil no Instagram.

Informações do disco:
- Nome: %s
- Artista: %s
- Ano: %s
- Condição: %s
- Descrição: %s
- Preço: %s

O post deve:
1. Ser conciso e atrativo (máximo 300 caracteres principais)
2. Destacar pontos positivos do disco
3. INCLUIR AS PRINCIPAIS MÚSICAS/FAIXAS do disco na descrição
4. Incluir emojis relevantes
5. Ter call-to-action (chamar no direct, etc)
6. Incluir hashtags relevantes no final

IMPORTANTE: Retorne APENAS o post final, sem introduções como "Aqui está..." ou explicações.`

// GenerateListing writes Instagram sales copy for a record.
func (c *Client) GenerateListing(ctx context.Context, rec *models.Record) (string, error) {
	prompt := fmt.Sprintf(listingPromptTemplate,
		rec.Name,
		rec.Artist,
		orDefault(rec.Year, "não informado"),
		orDefault(rec.Condition, "a verificar"),
		orDefault(rec.Description, "sem descrição adicional"),
		orDefault(catalog.FormatPrice(rec.Price), "a definir"),
	)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate listing: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}

	listing := CleanListing(text)
	slog.Info("Listing text generated", "record", rec.Name, "length", len(listing))
	return listing, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}
	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}
	return "", fmt.Errorf("unexpected response format from Gemini")
}

// ExtractJSON strips a surrounding markdown code fence from a model answer,
// leaving the raw JSON payload.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```json"); idx != -1 {
		text = text[idx+len("```json"):]
		if end := strings.Index(text, "```"); end != -1 {
			text = text[:end]
		}
		return strings.TrimSpace(text)
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// maxListingLength is the Instagram caption limit.
const maxListingLength = 2000

// introPrefixes are boilerplate openers the model keeps producing despite
// being told not to.
var introPrefixes = []string{
	"Aqui está uma sugestão de post para o Instagram:",
	"Aqui está o post para o Instagram:",
	"Aqui está uma proposta de post para o Instagram:",
	"Sugestão de post:",
	"Post para Instagram:",
}

// CleanListing strips known boilerplate prefixes and separator lines from a
// generated listing and caps it at the caption limit.
func CleanListing(text string) string {
	post := strings.TrimSpace(text)

	for _, prefix := range introPrefixes {
		if strings.HasPrefix(post, prefix) {
			post = strings.TrimSpace(strings.TrimPrefix(post, prefix))
		}
		post = strings.ReplaceAll(post, prefix+"\n", "")
	}

	lines := strings.Split(post, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == "---" {
			continue
		}
		kept = append(kept, line)
	}
	post = strings.Join(kept, "\n")

	if r := []rune(post); len(r) > maxListingLength {
		post = string(r[:maxListingLength-3]) + "..."
	}
	return post
}
