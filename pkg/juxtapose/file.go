package juxtapose

import (
	"context"

	"github.com/user/vmix/pkg/adapters/filtergraph"
	"github.com/user/vmix/pkg/adapters/logger"
	"github.com/user/vmix/pkg/adapters/osfilesystem"
	"github.com/user/vmix/pkg/yuv"
)

// Combine stacks two raw videos of the given frame size into outputPath.
// This is a convenience function that uses default adapters.
// For custom dependencies (e.g., custom logger), use the Stage API instead.
//
// Example using Stage API with custom logger:
//
//	stage := juxtapose.New(
//	    filtergraph.NewFactory(),
//	    osfilesystem.New(),
//	    myCustomLogger,
//	    juxtapose.DefaultOptions(),
//	)
//	result, err := stage.Execute(ctx, juxtapose.Input{
//	    FirstPath:      "top.yuv",
//	    FirstGeometry:  yuv.Geometry{Width: 640, Height: 360},
//	    SecondPath:     "bottom.yuv",
//	    SecondGeometry: yuv.Geometry{Width: 640, Height: 360},
//	    OutputPath:     "out.yuv",
//	})
func Combine(firstPath, secondPath, outputPath string, size yuv.Geometry, opts Options) error {
	stage := New(filtergraph.NewFactory(), osfilesystem.New(), logger.NewNoop(), opts)

	_, err := stage.Execute(context.Background(), Input{
		FirstPath:      firstPath,
		FirstGeometry:  size,
		SecondPath:     secondPath,
		SecondGeometry: size,
		OutputPath:     outputPath,
	})
	return err
}
