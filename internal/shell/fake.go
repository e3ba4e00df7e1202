package shell

import "context"

// FakeSourcer is an in-process Sourcer for tests: it looks up a canned
// SourceResult or error by ebuild path, doing no actual shell
// evaluation. Mirrors the role of a FakeRepo for the repository layer.
type FakeSourcer struct {
	Results map[string]SourceResult
	Errors  map[string]error
}

// NewFakeSourcer returns an empty FakeSourcer ready for Set/SetError.
func NewFakeSourcer() *FakeSourcer {
	return &FakeSourcer{Results: map[string]SourceResult{}, Errors: map[string]error{}}
}

// Set registers the result returned for job.EbuildPath.
func (f *FakeSourcer) Set(ebuildPath string, res SourceResult) {
	f.Results[ebuildPath] = res
}

// SetError registers a failure returned for job.EbuildPath.
func (f *FakeSourcer) SetError(ebuildPath string, err error) {
	f.Errors[ebuildPath] = err
}

func (f *FakeSourcer) Source(ctx context.Context, job SourceJob) (SourceResult, error) {
	if err, ok := f.Errors[job.EbuildPath]; ok {
		return SourceResult{}, err
	}
	if res, ok := f.Results[job.EbuildPath]; ok {
		return res, nil
	}
	return SourceResult{}, &ShellEvalError{Pkg: job.Cpv.String(), Message: "no fake result registered for " + job.EbuildPath}
}
