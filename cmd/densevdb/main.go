// Command-line tool for converting voxel data between dense buffers and sparse grids.
// Provides commands to build test volumes, sparsify raw buffers and check that serial
// and concurrent conversions agree.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/janelia-flyem/densevdb/vdb"
)

const version = "0.9.0"

var (
	// Display usage if true.
	showHelp = flag.Bool("help", false, "")

	// Run in verbose mode if true.
	runVerbose = flag.Bool("verbose", false, "")

	// Path to TOML configuration file.
	configFile = flag.String("config", "", "")

	// Number of partitions converted at once.
	useCPU = flag.Int("numcpu", 0, "")

	// Force all conversions onto a single goroutine.
	runSerial = flag.Bool("serial", false, "")

	// Codec of raw dense files, overriding the [output] setting.
	codecName = flag.String("codec", "", "")

	// Profile CPU usage using standard gotest system.
	cpuprofile = flag.String("cpuprofile", "", "")
)

const helpMessage = `
densevdb converts voxel data between dense buffers and sparse grids

Usage: densevdb [options] <command>

      -config     =string   TOML configuration file with [engine], [logging] and [output].
      -numcpu     =number   Number of partitions converted at once.
      -serial     (flag)    Run every conversion on a single goroutine.
      -codec      =string   Codec of raw dense files: none, zstd or snappy.
      -cpuprofile =string   Write CPU profile to this file.
      -verbose    (flag)    Run in verbose mode.
  -h, -help       (flag)    Show help message

Commands:

	about
	help

	sphere <file> radius=<float> voxel=<float> width=<float> [center=x,y,z] [bbox=...] [layout=zyx|xyz]

		Builds a narrow-band level set sphere, materializes it over its active bounding
		box (or bbox) and writes the dense float32 values to a raw file, which may also
		be given as out=<file>.

	sparsify <file> bbox=minx,miny,minz,maxx,maxy,maxz [tol=<float>] [bg=<float>] [layout=zyx|xyz]

		Reads a raw float32 file covering bbox, also given as in=<file>, and sparsifies
		it into a sparse grid.

	verify [radius=<float>] [voxel=<float>] [width=<float>] [tol=<float>]

		Converts a level set sphere serially and concurrently in both directions and
		checks that the results are identical.
`

var usage = func() {
	fmt.Print(helpMessage)
}

func main() {
	flag.BoolVar(showHelp, "h", false, "Show help message")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() >= 1 && strings.ToLower(flag.Args()[0]) == "help" {
		*showHelp = true
	}

	if *runVerbose {
		vdb.Verbose = true
		vdb.SetLogMode(vdb.DebugMode)
	}
	if *showHelp || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	command := vdb.Command(flag.Args())
	if err := DoCommand(command); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		vdb.Shutdown()
		os.Exit(1)
	}
	vdb.Shutdown()
}

// DoCommand serves as a switchboard for commands.
func DoCommand(cmd vdb.Command) error {
	if len(cmd) == 0 {
		return fmt.Errorf("Blank command!")
	}
	if cmd.Name() == "about" {
		fmt.Printf("densevdb %s\n", version)
		return nil
	}

	filename := *configFile
	if name, found := cmd.Parameter(vdb.KeyConfigFile); found {
		filename = name
	}
	tc, err := loadConfig(filename)
	if err != nil {
		return err
	}
	tc.Logging.SetLogger()

	switch cmd.Name() {
	case "sphere":
		return DoSphere(cmd, tc)
	case "sparsify":
		return DoSparsify(cmd, tc)
	case "verify":
		return DoVerify(cmd, tc)
	default:
		return fmt.Errorf("unknown command %q, try 'densevdb help'", cmd.Name())
	}
}
