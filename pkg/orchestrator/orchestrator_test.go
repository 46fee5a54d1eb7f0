package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"strings"
	"testing"

	"github.com/user/vmix/pkg/adapters/filtergraph"
	"github.com/user/vmix/pkg/mocks"
	"github.com/user/vmix/pkg/pipeline"
	"github.com/user/vmix/pkg/ports"
	"github.com/user/vmix/pkg/stages/graphbuild"
	"github.com/user/vmix/pkg/stages/layout"
	"github.com/user/vmix/pkg/yuv"
)

var size64 = yuv.Geometry{Width: 64, Height: 64}

// rawFrames returns n solid frames; frame k has luma value(k).
func rawFrames(g yuv.Geometry, n int, value func(k int) uint8) []byte {
	var buf bytes.Buffer
	for k := 0; k < n; k++ {
		buf.Write(bytes.Repeat([]byte{value(k)}, g.LumaSize()))
		buf.Write(bytes.Repeat([]byte{128}, 2*g.ChromaSize()))
	}
	return buf.Bytes()
}

func constant(v uint8) func(int) uint8 {
	return func(int) uint8 { return v }
}

// countingReader counts the bytes handed out.
type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

func newTestOrchestrator(fs ports.FileSystem, sink ports.DebugSink, log ports.Logger) *Orchestrator {
	return New(
		layout.NewStage(),
		graphbuild.NewStage(filtergraph.NewFactory(), log),
		nil,
		fs,
		sink,
		log,
	)
}

func twoInputConfig(policy pipeline.Policy) Config {
	return stackConfig(size64, policy)
}

// outputFrames splits the written output into packed frames.
func outputFrames(t *testing.T, fs *mocks.FileSystem, g yuv.Geometry) [][]byte {
	t.Helper()
	data, ok := fs.GetFile("out.yuv")
	if !ok {
		t.Fatal("output file was not written")
	}
	if len(data)%g.FrameSize() != 0 {
		t.Fatalf("output size %d is not a multiple of %d", len(data), g.FrameSize())
	}
	var frames [][]byte
	for off := 0; off < len(data); off += g.FrameSize() {
		frames = append(frames, data[off:off+g.FrameSize()])
	}
	return frames
}

// solidFrame returns one packed frame with constant planes.
func solidFrame(g yuv.Geometry, y, cb, cr uint8) []byte {
	var buf bytes.Buffer
	buf.Write(bytes.Repeat([]byte{y}, g.LumaSize()))
	buf.Write(bytes.Repeat([]byte{cb}, g.ChromaSize()))
	buf.Write(bytes.Repeat([]byte{cr}, g.ChromaSize()))
	return buf.Bytes()
}

// yuvColour is one stream's plane values for frame k.
type yuvColour func(k int) (y, cb, cr uint8)

func solidFrames(g yuv.Geometry, n int, colour yuvColour) []byte {
	var buf bytes.Buffer
	for k := 0; k < n; k++ {
		y, cb, cr := colour(k)
		buf.Write(solidFrame(g, y, cb, cr))
	}
	return buf.Bytes()
}

// vstackFrames builds the expected output of two equally sized streams
// stacked vertically: luma of a then b, Cb of a then b, Cr of a then b.
func vstackFrames(g yuv.Geometry, n int, a, b yuvColour) []byte {
	var buf bytes.Buffer
	for k := 0; k < n; k++ {
		ay, acb, acr := a(k)
		by, bcb, bcr := b(k)
		buf.Write(bytes.Repeat([]byte{ay}, g.LumaSize()))
		buf.Write(bytes.Repeat([]byte{by}, g.LumaSize()))
		buf.Write(bytes.Repeat([]byte{acb}, g.ChromaSize()))
		buf.Write(bytes.Repeat([]byte{bcb}, g.ChromaSize()))
		buf.Write(bytes.Repeat([]byte{acr}, g.ChromaSize()))
		buf.Write(bytes.Repeat([]byte{bcr}, g.ChromaSize()))
	}
	return buf.Bytes()
}

func stackConfig(g yuv.Geometry, policy pipeline.Policy) Config {
	config := DefaultConfig()
	config.Inputs = []pipeline.StreamSpec{
		{Path: "a.yuv", Geometry: g},
		{Path: "b.yuv", Geometry: g},
	}
	config.Output = pipeline.StreamSpec{Path: "out.yuv", Geometry: yuv.Geometry{Width: g.Width, Height: 2 * g.Height}}
	config.Policy = policy
	return config
}

func TestRun_SolidColourRoundTrip(t *testing.T) {
	colourA := func(k int) (uint8, uint8, uint8) { return uint8(40 + k), 90, 160 }
	colourB := func(k int) (uint8, uint8, uint8) { return uint8(200 - k), 60, 230 }

	fs := mocks.NewFileSystem()
	fs.WriteFile("a.yuv", solidFrames(size64, 5, colourA))
	fs.WriteFile("b.yuv", solidFrames(size64, 5, colourB))

	orch := newTestOrchestrator(fs, &mocks.NullSink{}, mocks.NewLogger())
	result, err := orch.Run(context.Background(), stackConfig(size64, pipeline.PolicyShortest))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	out := yuv.Geometry{Width: 64, Height: 128}
	if result.Output != out {
		t.Errorf("Output = %s, want %s", result.Output, out)
	}
	if result.FramesWritten != 5 {
		t.Errorf("FramesWritten = %d, want 5", result.FramesWritten)
	}
	if want := int64(5 * out.FrameSize()); result.BytesWritten != want {
		t.Errorf("BytesWritten = %d, want %d", result.BytesWritten, want)
	}
	if result.Reason != ReasonShortestEnded {
		t.Errorf("Reason = %q, want %q", result.Reason, ReasonShortestEnded)
	}
	if result.RunID == "" {
		t.Error("RunID is empty")
	}

	got, _ := fs.GetFile("out.yuv")
	want := vstackFrames(size64, 5, colourA, colourB)
	if len(got) != len(want) {
		t.Fatalf("output is %d bytes, want %d", len(got), len(want))
	}
	if !bytes.Equal(got, want) {
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("output differs at byte %d (frame %d): got %d, want %d",
					i, i/out.FrameSize(), got[i], want[i])
			}
		}
	}
}

func TestRun_UnequalLengthRoundTrip(t *testing.T) {
	size32 := yuv.Geometry{Width: 32, Height: 32}
	colourA := func(k int) (uint8, uint8, uint8) { return uint8(30 + k), 100, 150 }
	colourB := func(k int) (uint8, uint8, uint8) { return uint8(180 + k), 70, 210 }

	fs := mocks.NewFileSystem()
	fs.WriteFile("a.yuv", solidFrames(size32, 3, colourA))
	fs.WriteFile("b.yuv", solidFrames(size32, 10, colourB))

	orch := newTestOrchestrator(fs, &mocks.NullSink{}, mocks.NewLogger())
	result, err := orch.Run(context.Background(), stackConfig(size32, pipeline.PolicyShortest))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if result.FramesWritten != 3 {
		t.Errorf("FramesWritten = %d, want 3", result.FramesWritten)
	}
	if result.Reason != ReasonShortestEnded {
		t.Errorf("Reason = %q, want %q", result.Reason, ReasonShortestEnded)
	}
	got, _ := fs.GetFile("out.yuv")
	if want := vstackFrames(size32, 3, colourA, colourB); !bytes.Equal(got, want) {
		t.Errorf("output is %d bytes and differs from the expected %d bytes", len(got), len(want))
	}
}

func TestRun_ShortestStopsReadingLongerInput(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFile("a.yuv", rawFrames(size64, 3, constant(10)))
	b := &countingReader{r: bytes.NewReader(rawFrames(size64, 10, constant(20)))}
	fs.OpenFunc = func(path string) (io.ReadCloser, error) {
		if path == "b.yuv" {
			return io.NopCloser(b), nil
		}
		data, _ := fs.GetFile(path)
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	orch := newTestOrchestrator(fs, &mocks.NullSink{}, mocks.NewLogger())
	result, err := orch.Run(context.Background(), twoInputConfig(pipeline.PolicyShortest))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if result.FramesWritten != 3 {
		t.Errorf("FramesWritten = %d, want 3", result.FramesWritten)
	}
	if got := result.Streams[1].FramesRead; got != 3 {
		t.Errorf("stream 1 FramesRead = %d, want 3", got)
	}
	if b.n != 3*size64.FrameSize() {
		t.Errorf("read %d bytes of b.yuv, want %d", b.n, 3*size64.FrameSize())
	}
	if !result.Streams[0].Exhausted || result.Streams[1].Exhausted {
		t.Errorf("exhaustion = %v/%v, want true/false", result.Streams[0].Exhausted, result.Streams[1].Exhausted)
	}
	if result.Streams[0].EOFSent {
		t.Error("shortest policy sent end of stream")
	}
}

func TestRun_ShortestWithLongerInputFirst(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFile("a.yuv", rawFrames(size64, 10, constant(10)))
	fs.WriteFile("b.yuv", rawFrames(size64, 3, constant(20)))

	graph := mocks.NewFilterGraph()
	inner, err := filtergraph.NewFactory().NewGraph()
	if err != nil {
		t.Fatal(err)
	}
	graph.PushFunc = func(source string, frame *yuv.Frame, flags ports.PushFlags) error {
		return inner.Push(source, frame, flags)
	}
	graph.PullFunc = inner.Pull
	build := pipeline.StageFunc[pipeline.BuildInput, pipeline.BuildResult](
		func(ctx context.Context, in pipeline.BuildInput) (pipeline.BuildResult, error) {
			result, err := graphbuild.NewStage(&mocks.GraphFactory{Graph: inner}, mocks.NewLogger()).Execute(ctx, in)
			result.Graph = graph
			return result, err
		})

	orch := New(layout.NewStage(), build, nil, fs, &mocks.NullSink{}, mocks.NewLogger())
	result, err := orch.Run(context.Background(), twoInputConfig(pipeline.PolicyShortest))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if result.FramesWritten != 3 {
		t.Errorf("FramesWritten = %d, want 3", result.FramesWritten)
	}
	if graph.Pushed["in0"] != 3 || graph.Pushed["in1"] != 3 {
		t.Errorf("Pushed = %v, want three frames per source", graph.Pushed)
	}
	if result.Streams[0].FramesRead != 3 || result.Streams[1].FramesRead != 3 {
		t.Errorf("FramesRead = %d/%d, want 3/3", result.Streams[0].FramesRead, result.Streams[1].FramesRead)
	}
	if result.Streams[0].Exhausted || !result.Streams[1].Exhausted {
		t.Errorf("exhaustion = %v/%v, want false/true", result.Streams[0].Exhausted, result.Streams[1].Exhausted)
	}
	if len(graph.EOFs) != 0 {
		t.Errorf("EOFs = %v, want none", graph.EOFs)
	}
}

func TestRun_UnequalLengthPolicies(t *testing.T) {
	tests := []struct {
		policy  pipeline.Policy
		wantTop uint8 // luma of the first input's area once it has ended
	}{
		{policy: pipeline.PolicyLongest, wantTop: 12},
		{policy: pipeline.PolicyZeroPad, wantTop: yuv.Black[0]},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			fs := mocks.NewFileSystem()
			fs.WriteFile("a.yuv", rawFrames(size64, 3, func(k int) uint8 { return uint8(10 + k) }))
			fs.WriteFile("b.yuv", rawFrames(size64, 5, func(k int) uint8 { return uint8(100 + k) }))

			orch := newTestOrchestrator(fs, &mocks.NullSink{}, mocks.NewLogger())
			result, err := orch.Run(context.Background(), twoInputConfig(tt.policy))
			if err != nil {
				t.Fatalf("Run error: %v", err)
			}
			if result.FramesWritten != 5 {
				t.Fatalf("FramesWritten = %d, want 5", result.FramesWritten)
			}
			if result.Reason != ReasonAllEnded {
				t.Errorf("Reason = %q, want %q", result.Reason, ReasonAllEnded)
			}
			for i, st := range result.Streams {
				if !st.Exhausted || !st.EOFSent {
					t.Errorf("stream %d = %+v, want exhausted with end of stream sent", i, st)
				}
			}

			out := yuv.Geometry{Width: 64, Height: 128}
			frames := outputFrames(t, fs, out)
			if got := frames[2][0]; got != 12 {
				t.Errorf("frame 2 top luma = %d, want 12", got)
			}
			for k := 3; k < 5; k++ {
				if got := frames[k][0]; got != tt.wantTop {
					t.Errorf("frame %d top luma = %d, want %d", k, got, tt.wantTop)
				}
				if got := frames[k][64*64]; got != uint8(100+k) {
					t.Errorf("frame %d bottom luma = %d, want %d", k, got, 100+k)
				}
			}
		})
	}
}

func TestRun_InvalidGeometryBeforeIO(t *testing.T) {
	for _, g := range []yuv.Geometry{{Width: 63, Height: 64}, {Width: 0, Height: 64}, {Width: 64, Height: -2}, {Width: 4000000000, Height: 4000000000}} {
		fs := mocks.NewFileSystem()
		config := twoInputConfig(pipeline.PolicyShortest)
		config.Inputs[1].Geometry = g

		orch := newTestOrchestrator(fs, &mocks.NullSink{}, mocks.NewLogger())
		_, err := orch.Run(context.Background(), config)
		if !errors.Is(err, yuv.ErrInvalidGeometry) {
			t.Errorf("%s: error = %v, want ErrInvalidGeometry", g, err)
		}
		if len(fs.Opened) != 0 {
			t.Errorf("%s: opened %v before validation", g, fs.Opened)
		}
	}
}

func TestRun_OutputMismatchWarns(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFile("a.yuv", rawFrames(size64, 1, constant(1)))
	fs.WriteFile("b.yuv", rawFrames(size64, 1, constant(2)))
	log := mocks.NewLogger()

	config := twoInputConfig(pipeline.PolicyShortest)
	config.Output.Geometry = size64

	result, err := newTestOrchestrator(fs, &mocks.NullSink{}, log).Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	warnings := log.Entries(ports.LevelWarn)
	if len(warnings) != 1 || !strings.Contains(warnings[0].Message, "64x128") {
		t.Errorf("warnings = %+v, want one mentioning 64x128", warnings)
	}
	if result.RequestedOutput != size64 || result.FramesWritten != 1 {
		t.Errorf("result = %+v", result)
	}
}

func TestRun_DebugOutput(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFile("a.yuv", rawFrames(size64, 5, constant(1)))
	fs.WriteFile("b.yuv", rawFrames(size64, 5, constant(2)))
	sink := mocks.NewDebugSink(true)
	log := mocks.NewLogger()

	var labels []string
	preview := pipeline.StageFunc[pipeline.PreviewInput, pipeline.PreviewResult](
		func(ctx context.Context, in pipeline.PreviewInput) (pipeline.PreviewResult, error) {
			labels = in.Labels
			return pipeline.PreviewResult{Image: image.NewRGBA(image.Rect(0, 0, 8, 8))}, nil
		})
	orch := New(layout.NewStage(), graphbuild.NewStage(filtergraph.NewFactory(), log), preview, fs, sink, log)

	config := twoInputConfig(pipeline.PolicyShortest)
	config.PreviewEvery = 2
	if _, err := orch.Run(context.Background(), config); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if sink.PreviewCount() != 3 {
		t.Errorf("saved %d previews, want 3", sink.PreviewCount())
	}
	for _, idx := range []int{0, 2, 4} {
		if _, ok := sink.Previews[idx]; !ok {
			t.Errorf("missing preview %d", idx)
		}
	}
	if len(labels) != 2 || labels[0] != "a.yuv" {
		t.Errorf("labels = %v", labels)
	}
	if !bytes.Contains(sink.GraphJSON, []byte("Parsed_xstack_0")) {
		t.Errorf("graph JSON = %s", sink.GraphJSON)
	}
	if !bytes.Contains(sink.RunJSON, []byte(`"framesWritten": 5`)) {
		t.Errorf("run JSON = %s", sink.RunJSON)
	}
}

func TestRun_Cancelled(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFile("a.yuv", rawFrames(size64, 2, constant(1)))
	fs.WriteFile("b.yuv", rawFrames(size64, 2, constant(2)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newTestOrchestrator(fs, &mocks.NullSink{}, mocks.NewLogger()).Run(ctx, twoInputConfig(pipeline.PolicyShortest))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if result.Reason != ReasonCancelled {
		t.Errorf("Reason = %q, want %q", result.Reason, ReasonCancelled)
	}
	if _, ok := fs.GetFile("out.yuv"); !ok {
		t.Error("output file was not closed")
	}
}

func TestRun_GraphPullError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFile("a.yuv", rawFrames(size64, 2, constant(1)))
	fs.WriteFile("b.yuv", rawFrames(size64, 2, constant(2)))

	boom := errors.New("boom")
	graph := mocks.NewFilterGraph()
	graph.PullFunc = func(string) (*yuv.Frame, error) { return nil, boom }
	build := pipeline.StageFunc[pipeline.BuildInput, pipeline.BuildResult](
		func(ctx context.Context, in pipeline.BuildInput) (pipeline.BuildResult, error) {
			return pipeline.BuildResult{Graph: graph, Sources: []string{"in0", "in1"}, Sink: "out"}, nil
		})

	orch := New(layout.NewStage(), build, nil, fs, &mocks.NullSink{}, mocks.NewLogger())
	result, err := orch.Run(context.Background(), twoInputConfig(pipeline.PolicyShortest))
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want boom", err)
	}
	if result.Reason != ReasonFailed {
		t.Errorf("Reason = %q, want %q", result.Reason, ReasonFailed)
	}
	if graph.Pushed["in0"] != 1 || graph.Pushed["in1"] != 1 {
		t.Errorf("Pushed = %v, want one frame per source", graph.Pushed)
	}
	if !graph.Closed {
		t.Error("graph was not closed")
	}
}

func TestRun_ReadError(t *testing.T) {
	fs := mocks.NewFileSystem()
	readErr := errors.New("disk on fire")
	fs.OpenFunc = func(path string) (io.ReadCloser, error) {
		return io.NopCloser(io.MultiReader(bytes.NewReader(make([]byte, 100)), errReader{readErr})), nil
	}

	_, err := newTestOrchestrator(fs, &mocks.NullSink{}, mocks.NewLogger()).Run(context.Background(), twoInputConfig(pipeline.PolicyShortest))
	if !errors.Is(err, readErr) {
		t.Fatalf("Run error = %v, want %v", err, readErr)
	}
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func TestRun_SetupErrors(t *testing.T) {
	t.Run("missing input", func(t *testing.T) {
		fs := mocks.NewFileSystem()
		_, err := newTestOrchestrator(fs, &mocks.NullSink{}, mocks.NewLogger()).Run(context.Background(), twoInputConfig(pipeline.PolicyShortest))
		if err == nil || !strings.Contains(err.Error(), "open input 0") {
			t.Errorf("error = %v, want open input failure", err)
		}
	})

	t.Run("unknown layout", func(t *testing.T) {
		config := twoInputConfig(pipeline.PolicyShortest)
		config.Layout = "diagonal"
		_, err := newTestOrchestrator(mocks.NewFileSystem(), &mocks.NullSink{}, mocks.NewLogger()).Run(context.Background(), config)
		if err == nil || !strings.HasPrefix(err.Error(), "layout stage:") {
			t.Errorf("error = %v, want layout stage failure", err)
		}
	})

	t.Run("unknown policy", func(t *testing.T) {
		config := twoInputConfig("fastest")
		if err := config.Validate(); err == nil {
			t.Error("expected policy error")
		}
	})

	t.Run("no output", func(t *testing.T) {
		config := twoInputConfig(pipeline.PolicyShortest)
		config.Output.Path = ""
		if err := config.Validate(); err == nil {
			t.Error("expected output path error")
		}
	})
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{
		StateRunning:      "running",
		StateDrainingSink: "draining",
		StateTerminated:   "terminated",
		State(42):         "unknown",
	} {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestRun_KeepsGivenRunID(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFile("a.yuv", rawFrames(size64, 1, constant(50)))
	fs.WriteFile("b.yuv", rawFrames(size64, 1, constant(200)))

	config := twoInputConfig(pipeline.PolicyShortest)
	config.RunID = "fixed-id"

	orch := newTestOrchestrator(fs, &mocks.NullSink{}, mocks.NewLogger())
	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if result.RunID != "fixed-id" {
		t.Errorf("RunID = %q, want fixed-id", result.RunID)
	}
}
