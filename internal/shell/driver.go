package shell

import (
	"context"

	"github.com/pkgcraft/go-pkgcraft/internal/atom"
	"github.com/pkgcraft/go-pkgcraft/internal/cache"
	"github.com/pkgcraft/go-pkgcraft/internal/eapi"
)

// Locator supplies the repository-side facts the driver needs to
// source one package: where its ebuild lives, which EAPI and eclasses
// apply, and the content checksums that seed cache validation. The
// repository layer implements this; shell only depends on the
// interface because the repository package imports shell, so importing
// it back would form a cycle.
type Locator interface {
	RepoID() string
	EbuildPath(cpv atom.Cpv) (string, error)
	EbuildChecksum(cpv atom.Cpv) (string, error)
	Eapi(cpv atom.Cpv) (*eapi.Eapi, error)
	Eclasses(cpv atom.Cpv) ([]EclassRef, error)
}

// Driver adapts a WorkerPool and a Locator into a cache.Regenerator,
// the glue the metadata cache uses to refill a miss (spec §4.G
// "Regeneration").
type Driver struct {
	pool    *WorkerPool
	locator Locator
}

// NewDriver builds a Driver over pool, sourcing ebuilds located by l.
func NewDriver(pool *WorkerPool, l Locator) *Driver {
	return &Driver{pool: pool, locator: l}
}

// Regenerate implements cache.Regenerator.
func (d *Driver) Regenerate(ctx context.Context, cpv atom.Cpv) (*cache.Entry, string, error) {
	path, err := d.locator.EbuildPath(cpv)
	if err != nil {
		return nil, "", err
	}
	e, err := d.locator.Eapi(cpv)
	if err != nil {
		return nil, "", err
	}
	eclasses, err := d.locator.Eclasses(cpv)
	if err != nil {
		return nil, "", err
	}
	checksum, err := d.locator.EbuildChecksum(cpv)
	if err != nil {
		return nil, "", err
	}

	job := SourceJob{
		Cpv:        cpv,
		RepoID:     d.locator.RepoID(),
		Eapi:       e,
		EbuildPath: path,
		Eclasses:   eclasses,
	}

	res, err := d.pool.Run(ctx, job)
	if err != nil {
		return nil, "", err
	}

	m, err := BuildMetadata(job, res)
	if err != nil {
		return nil, "", err
	}

	eclassSums := make(map[string]string, len(eclasses))
	for _, ec := range eclasses {
		eclassSums[ec.Name] = ec.Checksum
	}

	return &cache.Entry{Meta: m, MD5: checksum, Eclasses: eclassSums}, checksum, nil
}
