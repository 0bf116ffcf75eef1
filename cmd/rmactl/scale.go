package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/rmakit/internal/buf"
	"github.com/joshuapare/rmakit/rma/datatype"
)

var (
	scaleType  string
	scaleValue string
)

func init() {
	cmd := newScaleCmd()
	cmd.Flags().StringVarP(&scaleType, "type", "t", "double", "Datatype: int, long, float, double, complex, dcomplex")
	cmd.Flags().StringVarP(&scaleValue, "scale", "s", "1", "Scale factor (complex as re,im)")
	rootCmd.AddCommand(cmd)
}

func newScaleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scale <value>...",
		Short: "Apply a scaling transform to typed values",
		Long: `The scale command encodes the values as the chosen datatype, applies
the scaling transform used to stage accumulate sources, and prints the
result. Complex values and scales are written as re,im.

Example:
  rmactl scale --type int --scale 3 1 2 3
  rmactl scale --type dcp --scale 1,1 2,3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScale(args)
		},
	}
}

type scaleReport struct {
	Type     string   `json:"type"`
	Scale    string   `json:"scale"`
	Identity bool     `json:"identity"`
	Input    []string `json:"input"`
	Output   []string `json:"output"`
}

// heapAlloc satisfies datatype.Allocator with ordinary Go memory.
type heapAlloc struct{}

func (heapAlloc) Alloc(size int) ([]byte, error) { return make([]byte, size), nil }
func (heapAlloc) Free([]byte) error              { return nil }

func runScale(args []string) error {
	dt, err := datatype.ParseDatatype(scaleType)
	if err != nil {
		return err
	}
	s, err := datatype.ParseScale(dt, scaleValue)
	if err != nil {
		return err
	}

	src, err := encodeValues(dt, args)
	if err != nil {
		return err
	}
	printVerbose("Encoded %d values into %d bytes\n", len(args), len(src))

	out, err := datatype.Apply(src, len(src), s, heapAlloc{})
	if err != nil {
		return err
	}

	report := scaleReport{
		Type:     dt.String(),
		Scale:    formatScale(s),
		Identity: datatype.IsIdentity(s),
		Input:    decodeValues(dt, src),
		Output:   decodeValues(dt, out),
	}
	if jsonOut {
		return printJSON(report)
	}

	printInfo("%s x %s", report.Type, report.Scale)
	if report.Identity {
		printInfo(" (identity, no copy)")
	}
	printInfo("\n")
	for i := range report.Input {
		printInfo("  %s -> %s\n", report.Input[i], report.Output[i])
	}
	return nil
}

// encodeValues parses each argument as a value of dt and packs them in
// native byte order.
func encodeValues(dt datatype.Datatype, args []string) ([]byte, error) {
	width := datatype.Width(dt)
	b := make([]byte, width*len(args))
	for i, a := range args {
		v, err := datatype.ParseScale(dt, a)
		if err != nil {
			return nil, fmt.Errorf("value %d (%q): %w", i, a, err)
		}
		off := i * width
		switch v := v.(type) {
		case datatype.Int32:
			buf.PutI32(b, off, int32(v))
		case datatype.Int64:
			buf.PutI64(b, off, int64(v))
		case datatype.Float32:
			buf.PutF32(b, off, float32(v))
		case datatype.Float64:
			buf.PutF64(b, off, float64(v))
		case datatype.Complex64:
			buf.PutC64(b, off, complex64(v))
		case datatype.Complex128:
			buf.PutC128(b, off, complex128(v))
		}
	}
	return b, nil
}

func decodeValues(dt datatype.Datatype, b []byte) []string {
	width := datatype.Width(dt)
	if width == 0 {
		return nil
	}
	out := make([]string, 0, len(b)/width)
	for off := 0; off+width <= len(b); off += width {
		switch dt {
		case datatype.AccInt:
			out = append(out, printer.Sprint(buf.I32(b, off)))
		case datatype.AccLong:
			out = append(out, printer.Sprint(buf.I64(b, off)))
		case datatype.AccFloat:
			out = append(out, strconv.FormatFloat(float64(buf.F32(b, off)), 'g', -1, 32))
		case datatype.AccDouble:
			out = append(out, strconv.FormatFloat(buf.F64(b, off), 'g', -1, 64))
		case datatype.AccComplex:
			c := buf.C64(b, off)
			out = append(out, formatComplex(float64(real(c)), float64(imag(c)), 32))
		case datatype.AccDComplex:
			c := buf.C128(b, off)
			out = append(out, formatComplex(real(c), imag(c), 64))
		}
	}
	return out
}

func formatComplex(re, im float64, bits int) string {
	return strconv.FormatFloat(re, 'g', -1, bits) + "," + strconv.FormatFloat(im, 'g', -1, bits)
}

func formatScale(s datatype.Scale) string {
	switch v := s.(type) {
	case datatype.Complex64:
		return formatComplex(float64(real(v)), float64(imag(v)), 32)
	case datatype.Complex128:
		return formatComplex(real(v), imag(v), 64)
	default:
		return fmt.Sprint(v)
	}
}
