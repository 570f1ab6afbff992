package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rogerio-castellano/steel-quoter/internal/pricing"
)

type weightOptions struct {
	shape      string
	family     string
	density    float64
	quantity   int
	pricePerLb float64
	extraCost  float64
	dims       pricing.Dimensions
}

func newWeightCmd() *cobra.Command {
	var o weightOptions
	cmd := &cobra.Command{
		Use:   "weight",
		Short: "Compute the weight and price of a line",
		Example: `  quotectl weight --shape plate --thickness 0.5 --width 12 --length 24 --qty 2 --price 0.85
  quotectl weight --shape pipe --family stainless --od 2.375 --wall 0.154 --length 240`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			shape, err := pricing.ParseShape(o.shape)
			if err != nil {
				return err
			}
			family, err := pricing.ParseFamily(o.family)
			if err != nil {
				return err
			}
			res, err := pricing.PriceLine(pricing.LineInput{
				Shape:      shape,
				Family:     family,
				Density:    o.density,
				Dimensions: o.dims,
				Quantity:   o.quantity,
				PricePerLb: o.pricePerLb,
				ExtraCost:  o.extraCost,
			})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "shape\t%s\n", shape)
			fmt.Fprintf(tw, "density\t%.4f lb/in³\n", res.Density)
			fmt.Fprintf(tw, "area\t%.4f in²\n", res.Area)
			fmt.Fprintf(tw, "weight each\t%.3f lb\n", res.WeightEach)
			fmt.Fprintf(tw, "total weight\t%.3f lb\n", res.TotalWeight)
			fmt.Fprintf(tw, "material\t%.2f\n", res.MaterialCost)
			fmt.Fprintf(tw, "extra\t%.2f\n", res.ExtraCost)
			fmt.Fprintf(tw, "line total\t%.2f\n", res.LineTotal)
			return tw.Flush()
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.shape, "shape", "", "shape, e.g. plate, tube, pipe")
	f.StringVar(&o.family, "family", string(pricing.Steel), "material family")
	f.Float64Var(&o.density, "density", 0, "density override in lb/in³")
	f.IntVar(&o.quantity, "qty", 1, "number of pieces")
	f.Float64Var(&o.pricePerLb, "price", 0, "price per lb")
	f.Float64Var(&o.extraCost, "extra", 0, "flat extra cost for the line")
	f.Float64Var(&o.dims.Thickness, "thickness", 0, "thickness (in)")
	f.Float64Var(&o.dims.Width, "width", 0, "width (in)")
	f.Float64Var(&o.dims.Height, "height", 0, "height (in), tubes only")
	f.Float64Var(&o.dims.Length, "length", 0, "length (in)")
	f.Float64Var(&o.dims.Diameter, "diameter", 0, "diameter (in)")
	f.Float64Var(&o.dims.OutsideDiameter, "od", 0, "outside diameter (in)")
	f.Float64Var(&o.dims.Wall, "wall", 0, "wall thickness (in)")
	f.Float64Var(&o.dims.LegA, "leg-a", 0, "first angle leg (in)")
	f.Float64Var(&o.dims.LegB, "leg-b", 0, "second angle leg (in)")
	_ = cmd.MarkFlagRequired("shape")
	return cmd
}

func newShapesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shapes",
		Short: "List shapes, their dimensions and the family densities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, s := range pricing.Shapes() {
				fmt.Fprintf(tw, "%s\t%v\n", s, pricing.RequiredDimensions(s))
			}
			fmt.Fprintln(tw)
			for _, f := range pricing.Families() {
				fmt.Fprintf(tw, "%s\t%.4f\n", f.Family, f.Density)
			}
			return tw.Flush()
		},
	}
}
