package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// console writes status lines to stderr so stdout stays pipeable JSON.
// NO_COLOR disables the ANSI colours.
type console struct {
	w     io.Writer
	color bool
}

var ui = &console{w: os.Stderr, color: os.Getenv("NO_COLOR") == ""}

const (
	ansiGreen  = "\033[0;32m"
	ansiRed    = "\033[0;31m"
	ansiYellow = "\033[1;33m"
	ansiBlue   = "\033[0;34m"
	ansiReset  = "\033[0m"
)

func (c *console) line(color, mark, format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	if c.color {
		fmt.Fprintf(c.w, "%s%s %s%s\n", color, mark, msg, ansiReset)
		return
	}
	fmt.Fprintf(c.w, "%s %s\n", mark, msg)
}

func (c *console) Step(format string, a ...interface{})    { c.line(ansiBlue, "->", format, a...) }
func (c *console) Success(format string, a ...interface{}) { c.line(ansiGreen, "ok", format, a...) }
func (c *console) Warn(format string, a ...interface{})    { c.line(ansiYellow, "!!", format, a...) }
func (c *console) Fail(format string, a ...interface{})    { c.line(ansiRed, "xx", format, a...) }

// printJSON writes v indented, for results meant to be piped
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
