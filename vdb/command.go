/*
	This file holds the command-line argument handling shared by densevdb tools.
	Commands are a name followed by positional arguments and optional settings of
	the form "<key>=<value>".
*/

package vdb

import (
	"fmt"
	"strconv"
	"strings"
)

// Keys for setting various arguments within the command line via "key=value" strings.
const (
	KeyConfigFile = "config"
	KeyBBox       = "bbox"
	KeyInput      = "in"
	KeyOutput     = "out"
	KeyTolerance  = "tol"
	KeyBackground = "bg"
	KeyRadius     = "radius"
	KeyVoxelSize  = "voxel"
	KeyHalfWidth  = "width"
	KeyCenter     = "center"
	KeyLayout     = "layout"
)

// Command is a command name plus its arguments.
type Command []string

// String returns a space-separated command line
func (cmd Command) String() string {
	return strings.Join([]string(cmd), " ")
}

// Name returns the first argument which is assumed to be the name of the command.
func (cmd Command) Name() string {
	if len(cmd) == 0 {
		return ""
	}
	return cmd[0]
}

// Parameter scans a command for any "key=value" argument and returns
// the value of the passed 'key'.
func (cmd Command) Parameter(key string) (value string, found bool) {
	if len(cmd) > 1 {
		for _, arg := range cmd[1:] {
			elems := strings.SplitN(arg, "=", 2)
			if len(elems) == 2 && elems[0] == key {
				value = elems[1]
				found = true
				return
			}
		}
	}
	return
}

// FloatParameter returns the float value of a "key=value" argument or the given
// default if the key is absent.
func (cmd Command) FloatParameter(key string, def float64) (float64, error) {
	s, found := cmd.Parameter(key)
	if !found {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s=%q: %w", key, s, err)
	}
	return f, nil
}

// BBoxParameter returns the box given by a "key=minx,miny,minz,maxx,maxy,maxz"
// argument.  The found flag is false if the key is absent.
func (cmd Command) BBoxParameter(key string) (b CoordBBox, found bool, err error) {
	s, found := cmd.Parameter(key)
	if !found {
		return
	}
	b, err = StringToBBox(s, ",")
	return
}

// CommandArgs sets a variadic argument set of string pointers to positional
// arguments, ignoring settings of the form "<key>=<value>".  If there aren't
// enough arguments to set a target, the target is set to the empty string.
// It returns an 'overflow' slice that has all arguments beyond those needed
// for targets.
func (cmd Command) CommandArgs(targets ...*string) (overflow []string) {
	overflow = make([]string, 0, len(cmd))
	for _, target := range targets {
		*target = ""
	}
	if len(cmd) < 2 {
		return
	}
	curTarget := 0
	for _, arg := range cmd[1:] {
		if strings.Contains(arg, "=") {
			continue
		}
		if curTarget >= len(targets) {
			overflow = append(overflow, arg)
		} else {
			*(targets[curTarget]) = arg
		}
		curTarget++
	}
	return
}
