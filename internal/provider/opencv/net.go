package opencv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gocv.io/x/gocv"

	"github.com/emotune/emotune/internal/domain"
	"github.com/emotune/emotune/internal/emotion"
)

var (
	ErrModelLoad     = errors.New("failed to load emotion model")
	ErrUnknownLayout = errors.New("unknown model input layout")
)

// Layout is the memory order of the network's input blob.
type Layout string

const (
	// LayoutNHWC is 1x75x75x3, the order Keras and tf2onnx exports keep by
	// default.
	LayoutNHWC Layout = "nhwc"
	// LayoutNCHW is 1x3x75x75, the order OpenCV DNN assumes for most
	// Caffe, Torch and ONNX graphs.
	LayoutNCHW Layout = "nchw"
)

// ParseLayout accepts "nhwc" or "nchw". Empty means LayoutNHWC.
func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case LayoutNHWC, "":
		return LayoutNHWC, nil
	case LayoutNCHW:
		return LayoutNCHW, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLayout, s)
	}
}

// shape is the 4-d blob size for the layout.
func (l Layout) shape() []int {
	if l == LayoutNCHW {
		return []int{1, emotion.Channels, emotion.InputSize, emotion.InputSize}
	}
	return []int{1, emotion.InputSize, emotion.InputSize, emotion.Channels}
}

// fill writes the interleaved HWC tensor into dst in the layout's order.
func (l Layout) fill(dst, hwc []float32) {
	if l != LayoutNCHW {
		copy(dst, hwc)
		return
	}
	plane := emotion.InputSize * emotion.InputSize
	for i := 0; i < plane; i++ {
		for c := 0; c < emotion.Channels; c++ {
			dst[c*plane+i] = hwc[i*emotion.Channels+c]
		}
	}
}

// NetModel scores normalized faces with an ONNX or TensorFlow export of the
// expression network. The input blob is float32 RGB in [0,1], shaped by the
// configured Layout. The layout must match the one the graph was exported
// with; OpenCV does not transpose inputs on its own.
type NetModel struct {
	pool   chan *gocv.Net
	layout Layout
}

// NewNetModel reads poolSize copies of the network from path. An optional
// config file is passed through to gocv.ReadNet.
func NewNetModel(path, config string, layout Layout, poolSize int) (*NetModel, error) {
	if layout == "" {
		layout = LayoutNHWC
	}
	if layout != LayoutNHWC && layout != LayoutNCHW {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, layout)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelLoad, path, err)
	}
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}

	m := &NetModel{pool: make(chan *gocv.Net, poolSize), layout: layout}
	for i := 0; i < poolSize; i++ {
		net := gocv.ReadNet(path, config)
		if net.Empty() {
			_ = m.Close()
			return nil, fmt.Errorf("%w: %s", ErrModelLoad, path)
		}
		net.SetPreferableBackend(gocv.NetBackendDefault)
		net.SetPreferableTarget(gocv.NetTargetCPU)
		m.pool <- &net
	}

	return m, nil
}

// Predict runs one forward pass and copies out the 7 class scores.
func (m *NetModel) Predict(ctx context.Context, face emotion.NormalizedFace) ([]float32, error) {
	if len(face.Pixels) != emotion.InputSize*emotion.InputSize*emotion.Channels {
		return nil, fmt.Errorf("unexpected input length %d", len(face.Pixels))
	}

	var net *gocv.Net
	select {
	case net = <-m.pool:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { m.pool <- net }()

	blob := gocv.NewMatWithSizes(m.layout.shape(), gocv.MatTypeCV32F)
	defer blob.Close()

	data, err := blob.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("input blob: %w", err)
	}
	m.layout.fill(data, face.Pixels)

	net.SetInput(blob, "")
	output := net.Forward("")
	defer output.Close()

	scores, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}
	if len(scores) != domain.EmotionCount {
		return nil, fmt.Errorf("%w: got %d values", emotion.ErrOutputShape, len(scores))
	}

	out := make([]float32, len(scores))
	copy(out, scores)
	return out, nil
}

// Close releases every pooled network. It must not race with Predict.
func (m *NetModel) Close() error {
	for {
		select {
		case n := <-m.pool:
			n.Close()
		default:
			return nil
		}
	}
}

var _ emotion.Model = (*NetModel)(nil)
