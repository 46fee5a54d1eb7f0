package layout

import (
	"context"
	"errors"
	"testing"

	"github.com/user/vmix/pkg/pipeline"
	"github.com/user/vmix/pkg/yuv"
)

func TestComputeLayout_VStackTwoInputs(t *testing.T) {
	input := pipeline.LayoutInput{
		Kind: pipeline.LayoutVStack,
		Geometries: []yuv.Geometry{
			{Width: 64, Height: 64},
			{Width: 64, Height: 64},
		},
	}

	result, err := ComputeLayout(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "[in0][in1]xstack=inputs=2:layout=0_0|0_h0[out]"
	if result.Description != expected {
		t.Errorf("expected %q, got %q", expected, result.Description)
	}
	if result.Output != (yuv.Geometry{Width: 64, Height: 128}) {
		t.Errorf("expected 64x128 output, got %s", result.Output)
	}

	expectedRegions := []pipeline.Rectangle{
		{X: 0, Y: 0, Width: 64, Height: 64},
		{X: 0, Y: 64, Width: 64, Height: 64},
	}
	for i, r := range expectedRegions {
		if result.Regions[i] != r {
			t.Errorf("regions[%d]: expected %+v, got %+v", i, r, result.Regions[i])
		}
	}
}

func TestComputeLayout_DefaultKindIsVStack(t *testing.T) {
	result, err := ComputeLayout(pipeline.LayoutInput{
		Geometries: []yuv.Geometry{{Width: 32, Height: 16}, {Width: 16, Height: 8}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Output != (yuv.Geometry{Width: 32, Height: 24}) {
		t.Errorf("expected 32x24 output, got %s", result.Output)
	}
}

func TestComputeLayout_HStackThreeInputs(t *testing.T) {
	result, err := ComputeLayout(pipeline.LayoutInput{
		Kind: pipeline.LayoutHStack,
		Geometries: []yuv.Geometry{
			{Width: 16, Height: 8},
			{Width: 32, Height: 16},
			{Width: 8, Height: 8},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "[in0][in1][in2]xstack=inputs=3:layout=0_0|w0_0|w0+w1_0[out]"
	if result.Description != expected {
		t.Errorf("expected %q, got %q", expected, result.Description)
	}
	if result.Output != (yuv.Geometry{Width: 56, Height: 16}) {
		t.Errorf("expected 56x16 output, got %s", result.Output)
	}
	if result.Regions[2].X != 48 {
		t.Errorf("expected third input at x=48, got %d", result.Regions[2].X)
	}
}

func TestComputeLayout_PolicyEOFAction(t *testing.T) {
	tests := []struct {
		policy pipeline.Policy
		want   string
	}{
		{pipeline.PolicyShortest, "[in0][in1]xstack=inputs=2:layout=0_0|0_h0[out]"},
		{pipeline.PolicyLongest, "[in0][in1]xstack=inputs=2:layout=0_0|0_h0:eof_action=repeat[out]"},
		{pipeline.PolicyZeroPad, "[in0][in1]xstack=inputs=2:layout=0_0|0_h0:eof_action=pad[out]"},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			result, err := ComputeLayout(pipeline.LayoutInput{
				Kind:       pipeline.LayoutVStack,
				Geometries: []yuv.Geometry{{Width: 8, Height: 8}, {Width: 8, Height: 8}},
				Policy:     tt.policy,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Description != tt.want {
				t.Errorf("expected %q, got %q", tt.want, result.Description)
			}
		})
	}
}

func TestComputeLayout_Errors(t *testing.T) {
	if _, err := ComputeLayout(pipeline.LayoutInput{}); !errors.Is(err, ErrNoInputs) {
		t.Errorf("expected ErrNoInputs, got %v", err)
	}

	_, err := ComputeLayout(pipeline.LayoutInput{
		Geometries: []yuv.Geometry{{Width: 8, Height: 8}, {Width: 7, Height: 8}},
	})
	if !errors.Is(err, yuv.ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}

	_, err = ComputeLayout(pipeline.LayoutInput{
		Kind:       "grid",
		Geometries: []yuv.Geometry{{Width: 8, Height: 8}},
	})
	if err == nil {
		t.Error("expected error for unknown layout")
	}

	tall := yuv.Geometry{Width: 64, Height: yuv.MaxDimension}
	_, err = ComputeLayout(pipeline.LayoutInput{
		Kind:       pipeline.LayoutVStack,
		Geometries: []yuv.Geometry{tall, tall},
	})
	if !errors.Is(err, yuv.ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry for an oversized stack, got %v", err)
	}
}

func TestStage_Execute(t *testing.T) {
	stage := NewStage()
	result, err := stage.Execute(context.Background(), pipeline.LayoutInput{
		Geometries: []yuv.Geometry{{Width: 8, Height: 8}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Description != "[in0]xstack=inputs=1:layout=0_0[out]" {
		t.Errorf("unexpected description %q", result.Description)
	}
}
