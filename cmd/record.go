package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"selenex/internal/config"
	"selenex/internal/recorder"
	"selenex/internal/session"
	"selenex/pkg/chrome"
)

func newRecordCommand() *cobra.Command {
	var output, device string

	cmd := &cobra.Command{
		Use:   "record <url>",
		Short: "Open Chrome on url and record interactions until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.Generator.InputFile
			}
			if device == "" {
				device = cfg.Chrome.Device
			}

			manager := recorder.NewRecorderManager(recorder.ChromeOptions{
				ExecPath: cfg.Chrome.ExecPath,
				Headless: cfg.Chrome.HeadlessMode,
			}, nil)

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(stop)

			return runRecord(cmd, manager, args[0], device, output, stop)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "session file to write (default $SELENEX_INPUT or session.json)")
	cmd.Flags().StringVar(&device, "device", "", fmt.Sprintf("device to emulate, one of %q", chrome.DeviceNames()))
	return cmd
}

// runRecord records until stop fires or the browser window is closed, then
// saves the captured events.
func runRecord(cmd *cobra.Command, manager *recorder.RecorderManager, url, device, output string, stop <-chan os.Signal) error {
	out := cmd.OutOrStdout()
	sessionID := uuid.New().String()

	if err := manager.StartRecording(sessionID, url, device); err != nil {
		return err
	}
	defer manager.CleanupRecording(sessionID)

	rec, _ := manager.GetRecorder(sessionID)
	fmt.Fprintf(out, "%s %s %s\n", green("🎬 Recording"), url, gray("(Ctrl+C or close the window to finish)"))

	select {
	case <-stop:
		if err := manager.StopRecording(sessionID); err != nil {
			fmt.Fprintln(out, yellow("⚠️ "+err.Error()))
		}
	case <-rec.Done():
	}

	events := rec.GetEvents()
	if err := session.Save(output, events); err != nil {
		return fmt.Errorf("save %s: %w", output, err)
	}
	fmt.Fprintf(out, "%s %s %s\n", green("💾 Saved session:"), output, gray(fmt.Sprintf("(%d events)", len(events))))
	return nil
}
