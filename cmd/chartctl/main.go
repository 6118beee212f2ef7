package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	pb "market-dashboard/src/grpc_control"
	"market-dashboard/src/models"

	"github.com/guptarohit/asciigraph"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
)

// -----------------------------------------------------------------------------

func main() {
	addr := flag.String("addr", "127.0.0.1:50051", "gRPC control server address")
	symbol := flag.String("symbol", "AAPL", "symbol to chart")
	category := flag.String("category", models.CategoryStocks, "stocks or commodities")
	period := flag.String("period", "1M", "1D, 1W, 1M, 3M or 1Y")
	height := flag.Int("height", 12, "chart height in rows")
	clearCache := flag.Bool("clear-cache", false, "clear the chart cache and exit")
	showStatus := flag.Bool("status", false, "print server status and exit")
	timeout := flag.Duration("timeout", 15*time.Second, "request timeout")
	flag.Parse()

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	client := pb.NewDashboardControlClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch {
	case *clearCache:
		n, err := client.ClearCache(ctx, &emptypb.Empty{})
		exitOn(err)
		fmt.Printf("cleared %d cached charts\n", n.GetValue())
	case *showStatus:
		resp, err := client.GetStatus(ctx, &emptypb.Empty{})
		exitOn(err)
		for k, v := range resp.AsMap() {
			fmt.Printf("%-16s %v\n", k, v)
		}
	default:
		view, err := client.FetchChart(ctx, *category, strings.ToUpper(*symbol), strings.ToUpper(*period))
		exitOn(err)
		render(os.Stdout, view, *height)
	}
}

// -----------------------------------------------------------------------------

func exitOn(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// -----------------------------------------------------------------------------

// render draws the raw prices with the first and last labels and stats.
func render(w io.Writer, view models.MChartView, height int) {
	caption := fmt.Sprintf("%s %s (%s, %s)", view.Symbol, view.Period, view.Source, view.Status)
	if view.Reason != "" {
		caption += " - " + view.Reason
	}

	if len(view.Series.RawPrices) == 0 {
		fmt.Fprintln(w, caption+": no data")
		return
	}

	fmt.Fprintln(w, asciigraph.Plot(view.Series.RawPrices,
		asciigraph.Height(height),
		asciigraph.Precision(2),
		asciigraph.Caption(caption),
	))

	if n := len(view.Labels); n > 0 {
		fmt.Fprintf(w, "\n%s ... %s\n", view.Labels[0], view.Labels[n-1])
	}
	fmt.Fprintf(w, "high %.2f  low %.2f  avg %.2f\n", view.Stats.High, view.Stats.Low, view.Stats.Avg)
}
