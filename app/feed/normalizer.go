package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lysyi3m/shop-feed/app/assets"
	"github.com/lysyi3m/shop-feed/app/catalog"
)

type FailurePolicy int

const (
	// PolicyIsolate drops records whose image could not be resolved and
	// reports them in Result.Failures.
	PolicyIsolate FailurePolicy = iota
	// PolicyStrict fails the whole run on the first record error.
	PolicyStrict
)

const (
	DefaultConcurrency   = 8
	DefaultUploadTimeout = 30 * time.Second
)

type Options struct {
	Concurrency   int
	UploadTimeout time.Duration
	Policy        FailurePolicy
}

type ImageResolver interface {
	Resolve(ctx context.Context, sourceURL string) (assets.Resolution, error)
}

var _ ImageResolver = (*assets.Gate)(nil)

type Normalizer struct {
	filterer *Filterer
	mapper   *Mapper
	resolver ImageResolver
	opts     Options
}

func NewNormalizer(filterer *Filterer, mapper *Mapper, resolver ImageResolver, opts Options) *Normalizer {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = DefaultUploadTimeout
	}

	return &Normalizer{
		filterer: filterer,
		mapper:   mapper,
		resolver: resolver,
		opts:     opts,
	}
}

type slot struct {
	record  Record
	savedID string
	err     *RecordError
}

// Run filters the products, resolves each eligible product's primary image
// concurrently and maps it to a record. Records keep the catalog order.
// Under PolicyStrict a failed run returns an error together with a Result
// holding only the images uploaded before the failure.
func (n *Normalizer) Run(ctx context.Context, products []catalog.Product) (*Result, error) {
	eligible := n.filterer.Run(products)
	if len(eligible) == 0 {
		return &Result{}, nil
	}

	slots := make([]slot, len(eligible))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(n.opts.Concurrency)

	for i, product := range eligible {
		group.Go(func() error {
			record, savedID, err := n.normalize(groupCtx, product)
			if err != nil {
				recordErr := &RecordError{ProductID: product.ID, Err: err}
				if n.opts.Policy == PolicyStrict {
					return recordErr
				}
				slots[i].err = recordErr
				return nil
			}

			slots[i] = slot{record: record, savedID: savedID}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		// Uploads that finished before the failure still happened and must
		// reach the caller.
		partial := &Result{}
		for _, s := range slots {
			if s.savedID != "" {
				partial.SavedImages = append(partial.SavedImages, s.savedID)
			}
		}
		return partial, fmt.Errorf("failed to normalize products: %w", err)
	}

	result := &Result{Records: make([]Record, 0, len(eligible))}
	for _, s := range slots {
		if s.err != nil {
			result.Failures = append(result.Failures, s.err)
			continue
		}
		result.Records = append(result.Records, s.record)
		if s.savedID != "" {
			result.SavedImages = append(result.SavedImages, s.savedID)
		}
	}

	if len(result.Failures) > 0 {
		slog.Warn("Some products were dropped from the feed",
			"eligible", len(eligible),
			"failed", len(result.Failures))
	}

	return result, nil
}

func (n *Normalizer) normalize(ctx context.Context, product catalog.Product) (Record, string, error) {
	uploadCtx, cancel := context.WithTimeout(ctx, n.opts.UploadTimeout)
	defer cancel()

	resolution, err := n.resolver.Resolve(uploadCtx, product.Images[0].Src)
	if err != nil {
		return nil, "", err
	}

	return n.mapper.Map(product, resolution.URL), resolution.NewPublicID, nil
}
