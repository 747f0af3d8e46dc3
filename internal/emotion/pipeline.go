package emotion

import (
	"errors"

	"github.com/emotune/emotune/internal/provider"
)

var ErrPipelineUnavailable = errors.New("face pipeline not initialized")

// Pipeline bundles the face locator and the classifier loaded at startup.
// A pipeline whose construction failed stays unavailable for the life of
// the process.
type Pipeline struct {
	Locator    provider.FaceLocator
	Classifier *Classifier

	model   Model
	initErr error
}

// NewPipeline wraps already constructed components
func NewPipeline(locator provider.FaceLocator, model Model) *Pipeline {
	return &Pipeline{
		Locator:    locator,
		Classifier: NewClassifier(model),
		model:      model,
	}
}

// Unavailable returns a pipeline that rejects every request
func Unavailable(reason error) *Pipeline {
	if reason == nil {
		reason = ErrPipelineUnavailable
	}
	return &Pipeline{initErr: reason}
}

// Available reports whether both components loaded
func (p *Pipeline) Available() bool {
	return p != nil && p.initErr == nil && p.Locator != nil && p.Classifier != nil
}

// Err returns the startup failure, if any
func (p *Pipeline) Err() error {
	if p == nil {
		return ErrPipelineUnavailable
	}
	return p.initErr
}

// Close releases the locator and the model
func (p *Pipeline) Close() error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.Locator != nil {
		errs = append(errs, p.Locator.Close())
	}
	if p.model != nil {
		errs = append(errs, p.model.Close())
	}
	return errors.Join(errs...)
}
