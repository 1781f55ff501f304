package main

import (
	"os"

	"github.com/Cem-Kaya/bvh-article-fork/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "bvh-article-fork"
	app.Usage = "build and query two-level BVH acceleration structures over triangle meshes"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "build",
			Usage:     "load a mesh, place instances, build a BLAS/TLAS and print stats",
			ArgsUsage: "scene.obj",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "instances",
					Value: 1,
					Usage: "number of instances of the loaded mesh to place",
				},
				cli.BoolFlag{
					Name:  "fast",
					Usage: "use the fast parallel TLAS build instead of the reference build",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 8,
					Usage: "worker count for the fast TLAS build (rounded down to a power of two)",
				},
			},
			Action: cmd.BuildScene,
		},
		{
			Name:      "trace",
			Usage:     "fire a single ray through a one-instance scene and print the hit",
			ArgsUsage: "scene.obj ox oy oz dx dy dz",
			Action:    cmd.TraceRay,
		},
	}

	app.Run(os.Args)
}
