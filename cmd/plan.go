package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/evtrip/planner/app"
	"github.com/evtrip/planner/config"
	"github.com/evtrip/planner/core/model"
	"github.com/evtrip/planner/infra/logger"
)

var planFlags struct {
	from    string
	to      string
	vehicle string
	mode    string
	soc     float64
	hvac    bool
	reserve float64
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute a single trip plan and print it as JSON",
	RunE:  planTrip,
}

func init() {
	planCmd.Flags().StringVar(&planFlags.from, "from", "", "start address")
	planCmd.Flags().StringVar(&planFlags.to, "to", "", "destination address")
	planCmd.Flags().StringVar(&planFlags.vehicle, "vehicle", "Tata Nexon EV", "vehicle preset name")
	planCmd.Flags().StringVar(&planFlags.mode, "mode", "normal", "drive mode (eco, normal, sport)")
	planCmd.Flags().Float64Var(&planFlags.soc, "soc", 1.0, "state of charge at departure, 0..1")
	planCmd.Flags().BoolVar(&planFlags.hvac, "hvac", false, "climate control on")
	planCmd.Flags().Float64Var(&planFlags.reserve, "reserve", 0.1, "energy reserve fraction")
	_ = planCmd.MarkFlagRequired("from")
	_ = planCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(planCmd)
}

func planTrip(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// A one-shot plan does not need the broker or the metrics pipeline.
	cfg.MQTT.Enabled = false
	cfg.Metrics.PrometheusEnabled = false
	cfg.Metrics.InfluxEnabled = false

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	logg := logger.New("plan-command")
	defer func() {
		if err := svc.Close(); err != nil {
			logg.Errorf("service close: %v", err)
		}
	}()

	veh, ok := model.PresetByName(planFlags.vehicle)
	if !ok {
		return fmt.Errorf("unknown vehicle preset %q", planFlags.vehicle)
	}
	mode := model.DriveMode(planFlags.mode)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	trip, err := svc.Planner.Plan(ctx, model.TripRequest{
		Start:       planFlags.from,
		End:         planFlags.to,
		Vehicle:     veh,
		DriveMode:   mode,
		SoCStart:    planFlags.soc,
		HVACOn:      planFlags.hvac,
		ReserveFrac: planFlags.reserve,
	})
	if err != nil {
		return fmt.Errorf("plan: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(trip)
}
