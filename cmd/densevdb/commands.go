package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/DmitriyVTitov/size"
	"github.com/dustin/go-humanize"

	"github.com/janelia-flyem/densevdb/convert"
	"github.com/janelia-flyem/densevdb/dense"
	"github.com/janelia-flyem/densevdb/sparse"
	"github.com/janelia-flyem/densevdb/vdb"
)

// sphereParams holds the level set sphere settings shared by "sphere" and "verify".
type sphereParams struct {
	radius    float64
	voxelSize float64
	halfWidth float64
	center    [3]float64
}

func getSphereParams(cmd vdb.Command) (p sphereParams, err error) {
	if p.radius, err = cmd.FloatParameter(vdb.KeyRadius, 10); err != nil {
		return
	}
	if p.voxelSize, err = cmd.FloatParameter(vdb.KeyVoxelSize, 0.2); err != nil {
		return
	}
	if p.halfWidth, err = cmd.FloatParameter(vdb.KeyHalfWidth, 5); err != nil {
		return
	}
	if s, found := cmd.Parameter(vdb.KeyCenter); found {
		var c vdb.Coord
		if c, err = vdb.StringToCoord(s, ","); err != nil {
			return
		}
		p.center = [3]float64{float64(c[0]), float64(c[1]), float64(c[2])}
	}
	return
}

// fileArgument returns the file named by a key=value setting or, failing that,
// by the single positional argument.
func fileArgument(cmd vdb.Command, key string) (string, error) {
	var filename string
	overflow := cmd.CommandArgs(&filename)
	if len(overflow) != 0 {
		return "", fmt.Errorf("%s command got unexpected arguments %v", cmd.Name(), overflow)
	}
	if value, found := cmd.Parameter(key); found {
		filename = value
	}
	if filename == "" {
		return "", fmt.Errorf("%s command requires a file given as <file> or %s=<file>", cmd.Name(), key)
	}
	return filename, nil
}

func getLayout(cmd vdb.Command) (dense.Layout, error) {
	s, _ := cmd.Parameter(vdb.KeyLayout)
	return dense.ParseLayout(s)
}

func describeTree(tree *sparse.Tree[float32]) string {
	min, max, _ := sparse.EvalMinMax[float32](tree)
	return fmt.Sprintf("%s active voxels in %d leaves, bbox %s, values [%g, %g], ~%s in memory",
		humanize.Comma(int64(tree.ActiveVoxelCount())), tree.LeafCount(), tree.ActiveBBox(),
		min, max, humanize.Bytes(uint64(size.Of(tree))))
}

// DoSphere materializes a level set sphere and writes it as a raw dense file.
func DoSphere(cmd vdb.Command, tc *tomlConfig) error {
	outPath, err := fileArgument(cmd, vdb.KeyOutput)
	if err != nil {
		return err
	}
	p, err := getSphereParams(cmd)
	if err != nil {
		return err
	}
	layout, err := getLayout(cmd)
	if err != nil {
		return err
	}
	tree, err := sparse.LevelSetSphere(p.radius, p.center, p.voxelSize, p.halfWidth)
	if err != nil {
		return err
	}
	fmt.Printf("Level set sphere: %s\n", describeTree(tree))

	bbox, found, err := cmd.BBoxParameter(vdb.KeyBBox)
	if err != nil {
		return err
	}
	if !found {
		bbox = tree.ActiveBBox()
	}
	d, err := dense.NewWithLayout(bbox, layout, tree.Background())
	if err != nil {
		return err
	}
	engine := convert.NewEngine(tc.Engine)
	convert.MaterializeUsing[float32](engine, tree, d, false)

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := dense.WriteRaw(w, d, tc.Output.codec); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Wrote %s to %s (checksum %016x)\n", d, outPath, d.Checksum())
	return nil
}

// DoSparsify reads a raw float32 file and sparsifies it.
func DoSparsify(cmd vdb.Command, tc *tomlConfig) error {
	inPath, err := fileArgument(cmd, vdb.KeyInput)
	if err != nil {
		return err
	}
	bbox, found, err := cmd.BBoxParameter(vdb.KeyBBox)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("sparsify command requires %s=minx,miny,minz,maxx,maxy,maxz", vdb.KeyBBox)
	}
	tol, err := cmd.FloatParameter(vdb.KeyTolerance, 0)
	if err != nil {
		return err
	}
	bg, err := cmd.FloatParameter(vdb.KeyBackground, 0)
	if err != nil {
		return err
	}
	layout, err := getLayout(cmd)
	if err != nil {
		return err
	}

	f, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer f.Close()
	d, err := dense.ReadRaw[float32](bufio.NewReader(f), bbox, layout, tc.Output.codec)
	if err != nil {
		return err
	}

	tree := sparse.NewTree(float32(bg))
	engine := convert.NewEngine(tc.Engine)
	convert.SparsifyUsing[float32](engine, d, tree, convert.ToleranceFor(float32(tol)), false)
	fmt.Printf("Sparsified %s: %s\n", d, describeTree(tree))
	return nil
}

// DoVerify checks that serial and concurrent conversions of a level set sphere agree.
func DoVerify(cmd vdb.Command, tc *tomlConfig) error {
	p, err := getSphereParams(cmd)
	if err != nil {
		return err
	}
	tol, err := cmd.FloatParameter(vdb.KeyTolerance, 0.00001)
	if err != nil {
		return err
	}
	tree, err := sparse.LevelSetSphere(p.radius, p.center, p.voxelSize, p.halfWidth)
	if err != nil {
		return err
	}
	engine := convert.NewEngine(tc.Engine)
	timedLog := vdb.NewTimeLog()

	bbox := tree.ActiveBBox()
	serial, err := dense.NewFilled(bbox, tree.Background())
	if err != nil {
		return err
	}
	concurrent := serial.Clone()
	convert.MaterializeUsing[float32](engine, tree, serial, true)
	convert.MaterializeUsing[float32](engine, tree, concurrent, false)
	if serial.Checksum() != concurrent.Checksum() {
		return fmt.Errorf("materialize mismatch: serial checksum %016x, concurrent %016x",
			serial.Checksum(), concurrent.Checksum())
	}

	cmp := convert.ToleranceFor(float32(tol))
	treeS := sparse.NewTree(tree.Background())
	treeP := sparse.NewTree(tree.Background())
	convert.SparsifyUsing[float32](engine, serial, treeS, cmp, true)
	convert.SparsifyUsing[float32](engine, concurrent, treeP, cmp, false)
	if !treeS.HasSameTopology(treeP) {
		return fmt.Errorf("sparsify mismatch: serial %d active voxels, concurrent %d",
			treeS.ActiveVoxelCount(), treeP.ActiveVoxelCount())
	}
	if !treeS.HasSameTopology(tree) {
		return fmt.Errorf("round trip changed topology: %d active voxels became %d",
			tree.ActiveVoxelCount(), treeS.ActiveVoxelCount())
	}
	timedLog.Infof("Verified %s with %s", serial, engine.Config())
	fmt.Printf("OK in %s: %s\n", timedLog.Elapsed(), describeTree(treeP))
	return nil
}
