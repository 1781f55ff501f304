package cmd

import (
	"fmt"
	"strconv"

	"github.com/Cem-Kaya/bvh-article-fork/internal/bvh"
	"github.com/Cem-Kaya/bvh-article-fork/mesh"
	"github.com/Cem-Kaya/bvh-article-fork/types"
	"github.com/urfave/cli"
)

// TraceRay loads a single-instance scene from a mesh file and fires one ray
// through it, printing the resulting hit record (or reporting a miss).
//
// Usage: trace <mesh.obj> ox oy oz dx dy dz
func TraceRay(ctx *cli.Context) error {
	setupLogging(ctx)

	args := ctx.Args()
	if len(args) != 7 {
		return fmt.Errorf("trace: expected <mesh.obj> ox oy oz dx dy dz, got %d args", len(args))
	}

	path := args[0]
	nums := make([]float32, 6)
	for i := 0; i < 6; i++ {
		v, err := strconv.ParseFloat(args[1+i], 32)
		if err != nil {
			return fmt.Errorf("trace: invalid number %q: %w", args[1+i], err)
		}
		nums[i] = float32(v)
	}

	m, err := mesh.LoadOBJ(path)
	if err != nil {
		logger.Error(err)
		return err
	}

	blas, err := bvh.BuildBLAS(m)
	if err != nil {
		logger.Error(err)
		return err
	}

	inst := bvh.NewInstance(blas, 0)
	tlas, err := bvh.NewTLAS([]*bvh.Instance{inst})
	if err != nil {
		logger.Error(err)
		return err
	}
	if err := tlas.Build(); err != nil {
		logger.Error(err)
		return err
	}

	ray := bvh.NewRay(
		types.Vec3{nums[0], nums[1], nums[2]},
		types.Vec3{nums[3], nums[4], nums[5]},
	)
	tlas.Intersect(ray)

	if ray.Hit.T >= types.Infinity {
		fmt.Println("miss")
		return nil
	}

	instanceIdx, primIdx := bvh.UnpackInstPrim(ray.Hit.InstPrim)
	fmt.Printf("hit t=%.4f u=%.4f v=%.4f instance=%d primitive=%d\n",
		ray.Hit.T, ray.Hit.U, ray.Hit.V, instanceIdx, primIdx)
	return nil
}
