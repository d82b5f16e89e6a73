package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"pixlet/internal/editor"
	"pixlet/internal/grid"
	"pixlet/internal/render"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "blank":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: pixtool blank <size> <out.png>")
			os.Exit(1)
		}
		os.Exit(runBlank(args[0], args[1]))
	case "info":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: pixtool info <file.png>")
			os.Exit(1)
		}
		os.Exit(runInfo(args[0]))
	case "viz":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: pixtool viz <file.png>")
			os.Exit(1)
		}
		os.Exit(runViz(args[0]))
	case "scale":
		if len(args) != 3 {
			fmt.Fprintln(os.Stderr, "Usage: pixtool scale <file.png> <factor> <out.png>")
			os.Exit(1)
		}
		os.Exit(runScale(args[0], args[1], args[2]))
	case "preview":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: pixtool preview <file.png> <out.png>")
			os.Exit(1)
		}
		os.Exit(runPreview(args[0], args[1]))
	case "validate":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: pixtool validate <dir>")
			os.Exit(1)
		}
		os.Exit(runValidate(args[0]))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: pixtool <command> <args>

Commands:
  blank    <size> <out.png>          Write an empty white grid (8-64)
  info     <file.png>                Show size and color distribution
  viz      <file.png>                Render a grid as half-block terminal art
  scale    <file.png> <n> <out.png>  Enlarge a grid n times, nearest neighbour
  preview  <file.png> <out.png>      Render the editor view with grid lines
  validate <dir>                     Check every PNG in dir loads as a grid`)
}

func load(path string) (*grid.Grid, bool) {
	g, err := grid.LoadPNG(path, grid.White)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, false
	}
	return g, true
}

// --- blank ---

func runBlank(sizeArg, out string) int {
	n, err := editor.ParseGridSize(sizeArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := grid.New(n, n, grid.White).SavePNG(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("Wrote %dx%d grid to %s\n", n, n, out)
	return 0
}

// --- info ---

func runInfo(path string) int {
	g, ok := load(path)
	if !ok {
		return 1
	}
	total := g.Width() * g.Height()
	fmt.Printf("%s (%dx%d = %d cells)\n\n", filepath.Base(path), g.Width(), g.Height(), total)

	counts := make(map[grid.Color]int)
	for row := 0; row < g.Height(); row++ {
		for col := 0; col < g.Width(); col++ {
			counts[g.At(row, col)]++
		}
	}

	type entry struct {
		color grid.Color
		count int
	}
	var sorted []entry
	for c, n := range counts {
		sorted = append(sorted, entry{c, n})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].color.Hex() < sorted[j].color.Hex()
	})

	for _, e := range sorted {
		pct := float64(e.count) / float64(total) * 100
		bar := strings.Repeat("█", int(pct/2))
		fmt.Printf("  %s %5d (%5.1f%%) %s\n", e.color.Hex(), e.count, pct, bar)
	}
	fmt.Printf("\nColors: %d\n", len(sorted))
	return 0
}

// --- viz ---

func runViz(path string) int {
	g, ok := load(path)
	if !ok {
		return 1
	}
	fmt.Printf("%s (%dx%d)\n", filepath.Base(path), g.Width(), g.Height())

	var sb strings.Builder
	for row := 0; row < g.Height(); row += 2 {
		for col := 0; col < g.Width(); col++ {
			cell := render.Cell{Ch: render.UpperHalf, Fg: g.At(row, col), Bg: g.At(row, col)}
			if row+1 < g.Height() {
				cell.Bg = g.At(row+1, col)
			}
			render.WriteCellSGR(&sb, cell)
		}
		sb.WriteString(render.Reset)
		sb.WriteByte('\n')
	}
	fmt.Print(sb.String())
	return 0
}

// --- scale ---

func runScale(path, factorArg, out string) int {
	g, ok := load(path)
	if !ok {
		return 1
	}
	factor, err := strconv.Atoi(factorArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: factor %q is not a number\n", factorArg)
		return 1
	}
	f, err := os.Create(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := g.EncodeScaledPNG(f, factor); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("Wrote %dx%d image to %s\n", g.Width()*factor, g.Height()*factor, out)
	return 0
}

// --- preview ---

func runPreview(path, out string) int {
	g, ok := load(path)
	if !ok {
		return 1
	}
	s := render.NewSurface()
	defer s.Close()
	if err := s.Redraw(g); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	f, err := os.Create(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer f.Close()
	if err := s.EncodePNG(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("Wrote %dx%d preview to %s\n", s.Size(), s.Size(), out)
	return 0
}

// --- validate ---

func runValidate(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading directory: %v\n", err)
		return 1
	}

	checked, failed := 0, 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".png") {
			continue
		}
		checked++
		g, err := grid.LoadPNG(filepath.Join(dir, entry.Name()), grid.White)
		if err != nil {
			fmt.Printf("  ERROR: %s: %v\n", entry.Name(), err)
			failed++
			continue
		}
		fmt.Printf("  OK %s (%dx%d)\n", entry.Name(), g.Width(), g.Height())
	}

	if failed > 0 {
		fmt.Printf("\n%d of %d file(s) invalid\n", failed, checked)
		return 1
	}
	fmt.Printf("\nAll %d file(s) valid\n", checked)
	return 0
}
