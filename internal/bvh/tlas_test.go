package bvh

import (
	"testing"

	"github.com/Cem-Kaya/bvh-article-fork/types"
)

func makeInstances(n int, spacing float32) []*Instance {
	blas, err := BuildBLAS(unitCubeMesh())
	if err != nil {
		panic(err)
	}
	instances := make([]*Instance, n)
	for i := 0; i < n; i++ {
		inst := NewInstance(blas, uint32(i))
		inst.SetTransform(types.Translate4(types.Vec3{float32(i) * spacing, 0, 0}))
		instances[i] = inst
	}
	return instances
}

func TestNewTLASRejectsTooManyInstances(t *testing.T) {
	instances := make([]*Instance, maxTLASNodes+1)
	_, err := NewTLAS(instances)
	if err != ErrTooManyInstances {
		t.Fatalf("expected ErrTooManyInstances, got %v", err)
	}
}

func TestTLASBuildTwoInstancesIntersectEachIndependently(t *testing.T) {
	instances := makeInstances(2, 10)
	tlas, err := NewTLAS(instances)
	if err != nil {
		t.Fatalf("NewTLAS: %v", err)
	}
	if err := tlas.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	ray0 := NewRay(types.Vec3{0, 0, -5}, types.Vec3{0, 0, 1})
	tlas.Intersect(ray0)
	if !approxEqual(ray0.Hit.T, 4, 1e-3) {
		t.Fatalf("expected ray0 to hit instance 0 at t=4, got %v", ray0.Hit.T)
	}
	inst0, _ := UnpackInstPrim(ray0.Hit.InstPrim)
	if inst0 != 0 {
		t.Fatalf("expected ray0 to hit instance 0, got instance %d", inst0)
	}

	ray1 := NewRay(types.Vec3{10, 0, -5}, types.Vec3{0, 0, 1})
	tlas.Intersect(ray1)
	if !approxEqual(ray1.Hit.T, 4, 1e-3) {
		t.Fatalf("expected ray1 to hit instance 1 at t=4, got %v", ray1.Hit.T)
	}
	inst1, _ := UnpackInstPrim(ray1.Hit.InstPrim)
	if inst1 != 1 {
		t.Fatalf("expected ray1 to hit instance 1, got instance %d", inst1)
	}
}

func TestTLASBuildEmptyInstancesIsNoopTraversal(t *testing.T) {
	tlas, err := NewTLAS(nil)
	if err != nil {
		t.Fatalf("NewTLAS: %v", err)
	}
	if err := tlas.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	ray := NewRay(types.Vec3{0, 0, -5}, types.Vec3{0, 0, 1})
	tlas.Intersect(ray)
	if ray.Hit.T != infinity {
		t.Fatalf("expected empty TLAS traversal to be a miss, got t=%v", ray.Hit.T)
	}
}

func TestTLASBuildSingleInstance(t *testing.T) {
	instances := makeInstances(1, 10)
	tlas, err := NewTLAS(instances)
	if err != nil {
		t.Fatalf("NewTLAS: %v", err)
	}
	if err := tlas.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	ray := NewRay(types.Vec3{0, 0, -5}, types.Vec3{0, 0, 1})
	tlas.Intersect(ray)
	if !approxEqual(ray.Hit.T, 4, 1e-3) {
		t.Fatalf("expected a hit at t=4, got %v", ray.Hit.T)
	}
}

func TestTLASBuildIsDeterministic(t *testing.T) {
	instancesA := makeInstances(17, 10)
	tlasA, _ := NewTLAS(instancesA)
	if err := tlasA.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	instancesB := makeInstances(17, 10)
	tlasB, _ := NewTLAS(instancesB)
	if err := tlasB.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if tlasA.NodesUsed != tlasB.NodesUsed {
		t.Fatalf("expected identical node counts across repeated builds, got %d vs %d", tlasA.NodesUsed, tlasB.NodesUsed)
	}
	for i := uint32(0); i < tlasA.NodesUsed; i++ {
		if tlasA.Nodes[i] != tlasB.Nodes[i] {
			t.Fatalf("node %d differs between repeated reference builds: %+v vs %+v", i, tlasA.Nodes[i], tlasB.Nodes[i])
		}
	}
}

func TestTLASBuildFastAgreesWithReferenceOnHits(t *testing.T) {
	refInstances := makeInstances(32, 6)
	refTLAS, _ := NewTLAS(refInstances)
	if err := refTLAS.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	fastInstances := makeInstances(32, 6)
	fastTLAS, _ := NewTLAS(fastInstances)
	if err := fastTLAS.BuildFast(4); err != nil {
		t.Fatalf("BuildFast: %v", err)
	}

	for i := 0; i < 32; i++ {
		x := float32(i) * 6
		ray0 := NewRay(types.Vec3{x, 0, -5}, types.Vec3{0, 0, 1})
		refTLAS.Intersect(ray0)

		ray1 := NewRay(types.Vec3{x, 0, -5}, types.Vec3{0, 0, 1})
		fastTLAS.Intersect(ray1)

		if !approxEqual(ray0.Hit.T, ray1.Hit.T, 1e-3) {
			t.Fatalf("instance %d: reference t=%v fast t=%v disagree", i, ray0.Hit.T, ray1.Hit.T)
		}
	}
}

func TestTLASBuildFastSingleWorkerMatchesManyWorkers(t *testing.T) {
	a := makeInstances(16, 6)
	tlasA, _ := NewTLAS(a)
	if err := tlasA.BuildFast(1); err != nil {
		t.Fatalf("BuildFast(1): %v", err)
	}

	b := makeInstances(16, 6)
	tlasB, _ := NewTLAS(b)
	if err := tlasB.BuildFast(8); err != nil {
		t.Fatalf("BuildFast(8): %v", err)
	}

	for i := 0; i < 16; i++ {
		x := float32(i) * 6
		rayA := NewRay(types.Vec3{x, 0, -5}, types.Vec3{0, 0, 1})
		tlasA.Intersect(rayA)

		rayB := NewRay(types.Vec3{x, 0, -5}, types.Vec3{0, 0, 1})
		tlasB.Intersect(rayB)

		if !approxEqual(rayA.Hit.T, rayB.Hit.T, 1e-3) {
			t.Fatalf("instance %d: worker=1 t=%v worker=8 t=%v disagree", i, rayA.Hit.T, rayB.Hit.T)
		}
	}
}

func TestTLASIntersectMatchesBruteForceAcrossInstances(t *testing.T) {
	instances := makeInstances(12, 4)
	tlas, err := NewTLAS(instances)
	if err != nil {
		t.Fatalf("NewTLAS: %v", err)
	}
	if err := tlas.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	for i := 0; i < 12; i++ {
		x := float32(i) * 4
		ray := NewRay(types.Vec3{x, 0, -5}, types.Vec3{0, 0, 1})
		tlas.Intersect(ray)

		bruteRay := NewRay(types.Vec3{x, 0, -5}, types.Vec3{0, 0, 1})
		for _, inst := range instances {
			inst.Intersect(bruteRay)
		}

		if !approxEqual(ray.Hit.T, bruteRay.Hit.T, 1e-3) {
			t.Fatalf("instance %d: tree t=%v brute-force t=%v disagree", i, ray.Hit.T, bruteRay.Hit.T)
		}
	}
}
