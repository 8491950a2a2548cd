package stationcodes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

var ErrNoCrsFound = errors.New("no CRS code found")

const datasetLoadTimeout = 5 * time.Minute

// Resolver turns TIPLOC and ATCO codes into CRS codes using a dataset that is
// loaded on first use and kept for the life of the process
type Resolver struct {
	Loader func(ctx context.Context) (*Dataset, error)

	group singleflight.Group

	mutex   sync.RWMutex
	dataset *Dataset
}

func NewResolver(source string) *Resolver {
	return &Resolver{
		Loader: func(ctx context.Context) (*Dataset, error) {
			return LoadDataset(ctx, source)
		},
	}
}

func (r *Resolver) loadedDataset() *Dataset {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.dataset
}

// Dataset returns the shared dataset, loading it if needed. Concurrent callers share
// one load and a failed load is attempted again by the next caller.
func (r *Resolver) Dataset(ctx context.Context) (*Dataset, error) {
	if dataset := r.loadedDataset(); dataset != nil {
		return dataset, nil
	}

	resultChannel := r.group.DoChan("dataset", func() (interface{}, error) {
		if dataset := r.loadedDataset(); dataset != nil {
			return dataset, nil
		}

		// Detached from the caller so one stop giving up does not fail the others waiting on this load
		loadContext, cancel := context.WithTimeout(context.Background(), datasetLoadTimeout)
		defer cancel()

		dataset, err := r.Loader(loadContext)
		if err != nil {
			return nil, err
		}

		r.mutex.Lock()
		r.dataset = dataset
		r.mutex.Unlock()

		return dataset, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-resultChannel:
		if result.Err != nil {
			return nil, result.Err
		}

		return result.Val.(*Dataset), nil
	}
}

func (r *Resolver) TiplocToCrs(ctx context.Context, tiploc string) (string, error) {
	dataset, err := r.Dataset(ctx)
	if err != nil {
		return "", err
	}

	candidates := dataset.Lookup(tiploc)
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w for TIPLOC %s", ErrNoCrsFound, tiploc)
	}

	if len(candidates) > 1 {
		log.Debug().Str("tiploc", tiploc).Strs("candidates", candidates).Msg("Multiple CRS codes found, using the first")
	}

	return candidates[0], nil
}

func (r *Resolver) AtcoToCrs(ctx context.Context, atco string) (string, error) {
	tiploc, err := AtcoToTiploc(atco)
	if err != nil {
		return "", err
	}

	return r.TiplocToCrs(ctx, tiploc)
}

var globalResolver *Resolver
var globalResolverMutex sync.Mutex

// Setup replaces the process wide resolver
func Setup(source string) *Resolver {
	globalResolverMutex.Lock()
	defer globalResolverMutex.Unlock()

	globalResolver = NewResolver(source)

	return globalResolver
}

// Global returns the process wide resolver, creating one without a dataset source if Setup was never called
func Global() *Resolver {
	globalResolverMutex.Lock()
	defer globalResolverMutex.Unlock()

	if globalResolver == nil {
		globalResolver = NewResolver("")
	}

	return globalResolver
}
