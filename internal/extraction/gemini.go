package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const catalogTimeout = 10 * time.Second

// Gemini implements the Extractor interface using Google Gemini. The
// model is chosen once at construction from the provider's capability
// query.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a Gemini extractor. It queries the model catalog
// and selects a usable model, preferring a fast variant.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	catalog, err := listCatalog(ctx, client)
	if err != nil {
		// The capability query is idempotent, so one retry is safe.
		slog.Warn("Model catalog query failed, retrying once", "error", err)
		catalog, err = listCatalog(ctx, client)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("querying model catalog: %w", err)
		}
	}

	name, err := SelectModel(catalog)
	if err != nil {
		client.Close()
		return nil, err
	}
	slog.Info("Selected model", "model", name)

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(name),
	}, nil
}

// listCatalog runs the capability query once, preserving provider
// order so selection stays deterministic.
func listCatalog(ctx context.Context, client *genai.Client) ([]ModelInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, catalogTimeout)
	defer cancel()

	var catalog []ModelInfo
	it := client.ListModels(ctx)
	for {
		m, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing models: %w", err)
		}
		catalog = append(catalog, ModelInfo{
			Name:         m.Name,
			Capabilities: m.SupportedGenerationMethods,
		})
	}
	return catalog, nil
}

// Extract sends the instruction and a PNG receipt image to the
// selected model and returns the raw text reply.
func (g *Gemini) Extract(ctx context.Context, image []byte, instruction string) (string, error) {
	parts := []genai.Part{
		genai.ImageData("png", image),
		genai.Text(instruction),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from gemini")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String(), nil
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	return g.client.Close()
}
