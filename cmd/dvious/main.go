// Command dvious disassembles DVI files and reads TFM font metrics.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mrklie/dvious/dvi"
	"github.com/mrklie/dvious/internal/xlog"
	"github.com/mrklie/dvious/tfm"
)

func main() {
	verbose := flag.Bool("v", false, "enable verbose logging")
	flag.Usage = usage
	flag.Parse()

	if *verbose {
		xlog.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	if flag.NArg() < 2 {
		usage()
		os.Exit(1)
	}

	cmd, file := flag.Arg(0), flag.Arg(1)

	var err error
	switch cmd {
	case "disassemble":
		err = runDisassemble(file)
	case "tfm":
		err = runTfm(file)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "dvious: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] <disassemble|tfm> <file>\n", os.Args[0])
	flag.PrintDefaults()
}

func runDisassemble(file string) error {
	buf, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	ops, err := dvi.Disassemble(buf)
	if err != nil {
		return fmt.Errorf("disassembling %s: %w", file, err)
	}

	xlog.Logger().Info("disassembled", "file", file, "opcodes", len(ops))
	for _, op := range ops {
		fmt.Println(op)
	}
	return nil
}

func runTfm(file string) error {
	buf, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	m, err := tfm.Read(buf)
	if err != nil {
		return fmt.Errorf("reading tfm %s: %w", file, err)
	}

	xlog.Logger().Info("read tfm", "file", file, "chars", len(m.CharInfo))
	fmt.Printf("checksum=%#x design_size=%v bc=%d ec=%d chars=%d\n",
		m.Header.Checksum, m.Header.DesignSize, m.BC, m.EC, len(m.CharInfo))
	if m.Header.Encoding != nil {
		fmt.Printf("encoding=%q\n", *m.Header.Encoding)
	}
	if m.Header.FontIdentifier != nil {
		fmt.Printf("font_identifier=%q\n", *m.Header.FontIdentifier)
	}
	fmt.Printf("chars=%v\n", m.Chars())
	return nil
}
