package cmd

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/Cem-Kaya/bvh-article-fork/internal/bvh"
	"github.com/Cem-Kaya/bvh-article-fork/mesh"
	"github.com/Cem-Kaya/bvh-article-fork/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// instanceSpacing is the distance, along X, between successive placed
// instances of the loaded mesh when --instances > 1.
const instanceSpacing float32 = 3.0

// instanceRotationStep is the additional rotation, around Y, applied to
// each successively placed instance so a multi-instance scene exercises
// the rotated-instance path rather than pure translation.
const instanceRotationStep = float32(math.Pi / 8)

// BuildScene loads a mesh, places the requested number of instances,
// builds a BLAS and a TLAS (reference or fast, per --fast) and prints a
// stats table summarising the result.
func BuildScene(ctx *cli.Context) error {
	setupLogging(ctx)

	path := ctx.Args().First()
	if path == "" {
		return fmt.Errorf("build: a mesh file is required")
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
	blasStats := blas.Stats()

	instanceCount := ctx.Int("instances")
	if instanceCount < 1 {
		instanceCount = 1
	}
	instances := make([]*bvh.Instance, instanceCount)
	for i := 0; i < instanceCount; i++ {
		offset := types.Vec3{float32(i) * instanceSpacing, 0, 0}
		angle := float32(i) * instanceRotationStep
		inst, err := bvh.PlaceInstance(blas, uint32(i), offset, types.Vec3{0, 1, 0}, angle, types.Vec3{1, 1, 1})
		if err != nil {
			logger.Error(err)
			return err
		}
		instances[i] = inst
	}

	tlas, err := bvh.NewTLAS(instances)
	if err != nil {
		logger.Error(err)
		return err
	}

	workers := ctx.Int("workers")
	if ctx.Bool("fast") {
		err = tlas.BuildFast(workers)
	} else {
		err = tlas.Build()
	}
	if err != nil {
		logger.Error(err)
		return err
	}
	tlasStats := tlas.Stats()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"structure", "nodes", "leaves", "max depth", "build time"})
	table.Append([]string{
		"BLAS",
		strconv.Itoa(blasStats.NodesUsed),
		strconv.Itoa(blasStats.Leaves),
		strconv.Itoa(blasStats.MaxDepth),
		blasStats.Duration.String(),
	})
	table.Append([]string{
		"TLAS",
		strconv.Itoa(tlasStats.NodesUsed),
		strconv.Itoa(tlasStats.Leaves),
		"-",
		tlasStats.Duration.String(),
	})
	table.Render()

	return nil
}
