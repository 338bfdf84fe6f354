package assets

import (
	"context"
	"log/slog"
)

// Transform is an incoming transformation in the asset host's syntax,
// applied once when the image is stored.
type Transform string

// SquareTransform scales uploads to a 1080px square.
const SquareTransform Transform = "c_scale,h_1080,w_1080"

type Host interface {
	Upload(ctx context.Context, sourceURL, publicID string, t Transform) (string, error)
	URL(publicID string) string
}

// KnownSet holds the public IDs already stored on the asset host. It is
// never written after construction.
type KnownSet map[string]struct{}

func NewKnownSet(ids []string) KnownSet {
	known := make(KnownSet, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
	}
	return known
}

func (k KnownSet) Contains(id string) bool {
	_, ok := k[id]
	return ok
}

type Resolution struct {
	URL string
	// NewPublicID is set only when this resolution uploaded the image. It is
	// the ID derived from the source URL, which later runs look up, even when
	// the host stored the asset under another name.
	NewPublicID string
}

type Gate struct {
	host     Host
	known    KnownSet
	optimize bool
}

// NewGate builds a gate over host. A nil host disables both the known-asset
// lookup and uploads, so every image resolves to its source URL.
func NewGate(host Host, known KnownSet, optimize bool) *Gate {
	if known == nil {
		known = KnownSet{}
	}
	return &Gate{
		host:     host,
		known:    known,
		optimize: optimize,
	}
}

func (g *Gate) Resolve(ctx context.Context, sourceURL string) (Resolution, error) {
	if g.host == nil {
		return Resolution{URL: sourceURL}, nil
	}

	publicID := PublicID(sourceURL)

	if g.known.Contains(publicID) {
		return Resolution{URL: g.host.URL(publicID)}, nil
	}

	if !g.optimize {
		return Resolution{URL: sourceURL}, nil
	}

	assetID, err := g.host.Upload(ctx, sourceURL, publicID, SquareTransform)
	if err != nil {
		return Resolution{}, &UploadError{PublicID: publicID, SourceURL: sourceURL, Err: err}
	}

	slog.Debug("Image uploaded", "public_id", publicID, "asset_id", assetID, "source", sourceURL)

	return Resolution{URL: g.host.URL(assetID), NewPublicID: publicID}, nil
}
