package main

import (
	"SlotDB/optimizer/statistics"
	executor "SlotDB/query_executor"
	storageengine "SlotDB/storage_engine"
	bplus "SlotDB/storage_engine/access/indexfile_manager/bplustree"
	"SlotDB/types"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var ErrNotTree = errors.New("table is not a B+Tree")

//load cmd

var loadOpts struct {
	table  string
	csv    string
	header bool
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "append the rows of a CSV file to a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(loadOpts.csv)
		if err != nil {
			return types.IOError("load", err)
		}
		defer f.Close()
		return withEngine(func(se *storageengine.StorageEngine) error {
			n, err := loadCSV(se, loadOpts.table, f, loadOpts.header)
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %s rows into %s\n", humanize.Comma(int64(n)), loadOpts.table)
			return err
		})
	},
}

func initLoadCmd() {
	RootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringVar(&loadOpts.table, "table", "", "target table")
	loadCmd.Flags().StringVar(&loadOpts.csv, "csv", "", "CSV file, one row per record in column order")
	loadCmd.Flags().BoolVar(&loadOpts.header, "header", false, "skip the first record")
	loadCmd.MarkFlagRequired("table")
	loadCmd.MarkFlagRequired("csv")
}

// loadCSV inserts every record of r into table and returns how many rows
// were inserted before the first error.
func loadCSV(se *storageengine.StorageEngine, table string, r io.Reader, header bool) (int, error) {
	t, err := se.File(table)
	if err != nil {
		return 0, err
	}
	schema := t.Schema()
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = schema.Size()
	cr.TrimLeadingSpace = true

	n := 0
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, types.PreconditionError("loadCSV", errors.Wrapf(err, "line %d", line))
		}
		if header && line == 1 {
			continue
		}
		fields := make([]types.Field, len(rec))
		for i, s := range rec {
			if fields[i], err = types.ParseField(schema.TypeOf(i), s); err != nil {
				return n, types.PreconditionError("loadCSV", errors.Wrapf(err, "line %d column %q", line, schema.NameOf(i)))
			}
		}
		if err := t.Insert(types.NewRow(fields...)); err != nil {
			return n, errors.Wrapf(err, "line %d", line)
		}
		n++
	}
}

//scan cmd

var scanTable string

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "print every row of a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(se *storageengine.StorageEngine) error {
			t, err := se.File(scanTable)
			if err != nil {
				return err
			}
			n, err := executor.PrintTable(cmd.OutOrStdout(), t)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "(%s rows)\n", humanize.Comma(int64(n)))
			return nil
		})
	},
}

func initScanCmd() {
	RootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVar(&scanTable, "table", "", "table to scan")
	scanCmd.MarkFlagRequired("table")
}

//stats cmd

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "show table sizes and buffer pool counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(se *storageengine.StorageEngine) error {
			printStats(se, cmd.OutOrStdout())
			return nil
		})
	},
}

func initStatsCmd() {
	RootCmd.AddCommand(statsCmd)
}

func printStats(se *storageengine.StorageEngine, w io.Writer) {
	executor.PrintLine(w, []string{"table", "kind", "columns", "row bytes", "pages", "size"})
	executor.PrintSeparator(w, 6)
	for _, ti := range se.Tables() {
		executor.PrintLine(w, []string{
			ti.Name, ti.Kind, fmt.Sprint(ti.Columns), fmt.Sprint(ti.RowLength),
			humanize.Comma(int64(ti.Pages)), humanize.Bytes(uint64(ti.Bytes)),
		})
	}
	s := se.BufferPool.GetStats()
	fmt.Fprintf(w, "\nbuffer pool: %d/%d pages (%s), %d dirty, hit rate %.1f%%, %d evictions, %d write-backs\n",
		s.TotalPages, s.Capacity, humanize.Bytes(uint64(s.Capacity)*types.PageSize),
		s.DirtyPages, 100*s.HitRate(), s.Evictions, s.WriteBacks)
}

//inspect cmd

var inspectTable string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "dump the page tree of a B+Tree table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(se *storageengine.StorageEngine) error {
			t, err := se.File(inspectTable)
			if err != nil {
				return err
			}
			tree, ok := t.(*bplus.BTreeFile)
			if !ok {
				return types.PreconditionError("inspect", errors.Wrapf(ErrNotTree, "%q", inspectTable))
			}
			return tree.Inspect(cmd.OutOrStdout())
		})
	},
}

func initInspectCmd() {
	RootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectTable, "table", "", "B+Tree table")
	inspectCmd.MarkFlagRequired("table")
}

//aggregate cmd

var aggOpts struct {
	table string
	op    string
	field string
	group string
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "compute COUNT, SUM, AVG, MIN or MAX of a column, optionally per group",
	RunE: func(cmd *cobra.Command, args []string) error {
		op, err := parseAggregateOp(aggOpts.op)
		if err != nil {
			return err
		}
		agg := executor.Aggregation{Field: aggOpts.field, Op: op, Group: aggOpts.group}
		return withEngine(func(se *storageengine.StorageEngine) error {
			return runAggregate(se, cmd.OutOrStdout(), aggOpts.table, agg)
		})
	},
}

func initAggregateCmd() {
	RootCmd.AddCommand(aggregateCmd)
	aggregateCmd.Flags().StringVar(&aggOpts.table, "table", "", "input table")
	aggregateCmd.Flags().StringVar(&aggOpts.op, "op", "count", "count, sum, avg, min or max")
	aggregateCmd.Flags().StringVar(&aggOpts.field, "field", "", "aggregated column")
	aggregateCmd.Flags().StringVar(&aggOpts.group, "group", "", "group column (optional)")
	aggregateCmd.MarkFlagRequired("table")
	aggregateCmd.MarkFlagRequired("field")
}

func parseAggregateOp(s string) (types.AggregateOp, error) {
	for _, op := range []types.AggregateOp{types.AggCount, types.AggSum, types.AggAvg, types.AggMin, types.AggMax} {
		if strings.EqualFold(s, op.String()) {
			return op, nil
		}
	}
	return 0, types.PreconditionError("parseAggregateOp", errors.Wrapf(executor.ErrBadOperator, "%q", s))
}

const scratchTable = "__aggregate"

// runAggregate writes the result into a scratch heap, prints it and drops it.
func runAggregate(se *storageengine.StorageEngine, w io.Writer, table string, agg executor.Aggregation) error {
	in, err := se.File(table)
	if err != nil {
		return err
	}
	d, err := executor.AggregateSchema(in.Schema(), agg)
	if err != nil {
		return err
	}
	if se.CatalogManager.Contains(scratchTable) {
		// left over from an interrupted run
		if err := se.Drop(scratchTable); err != nil {
			return err
		}
	}
	out, err := se.CreateHeap(scratchTable, d)
	if err != nil {
		return err
	}
	defer se.Drop(scratchTable)

	if err := executor.Aggregate(in, out, agg); err != nil {
		return err
	}
	_, err = executor.PrintTable(w, out)
	return err
}

//histogram cmd

var histOpts struct {
	table   string
	column  string
	buckets int
}

var histogramCmd = &cobra.Command{
	Use:   "histogram",
	Short: "build an equi-width histogram over an INT column",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(se *storageengine.StorageEngine) error {
			return printHistogram(se, cmd.OutOrStdout(), histOpts.table, histOpts.column, histOpts.buckets)
		})
	},
}

func initHistogramCmd() {
	RootCmd.AddCommand(histogramCmd)
	histogramCmd.Flags().StringVar(&histOpts.table, "table", "", "input table")
	histogramCmd.Flags().StringVar(&histOpts.column, "column", "", "INT column")
	histogramCmd.Flags().IntVar(&histOpts.buckets, "buckets", 10, "number of buckets")
	histogramCmd.MarkFlagRequired("table")
	histogramCmd.MarkFlagRequired("column")
}

func printHistogram(se *storageengine.StorageEngine, w io.Writer, table, column string, buckets int) error {
	t, err := se.File(table)
	if err != nil {
		return err
	}
	cs, err := statistics.Build(t, column, buckets)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s.%s: %s values, bucket width %d\n", table, column,
		humanize.Comma(int64(cs.Total())), cs.BucketWidth())
	for i, c := range cs.Buckets() {
		fmt.Fprintf(w, "  #%-3d %s\n", i, humanize.Comma(int64(c)))
	}
	return nil
}
