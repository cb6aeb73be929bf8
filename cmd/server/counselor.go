package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soaringjerry/wellcheck/internal/api"
	"github.com/soaringjerry/wellcheck/internal/config"
)

var addCounselorCmd = &cobra.Command{
	Use:   "add-counselor",
	Short: "Create a counselor account in the configured store",
	Long: `Counselor accounts cannot be created through the public register endpoint.
The password is read from --password or WELLCHECK_COUNSELOR_PASSWORD.
With the memory driver, stop the server first: it only reads the snapshot on start.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("WELLCHECK_COUNSELOR_PASSWORD")
		}
		id, err := addCounselor(cfg, logger, email, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created counselor %s (%s)\n", strings.ToLower(strings.TrimSpace(email)), id)
		return nil
	},
}

func init() {
	addCounselorCmd.Flags().String("email", "", "counselor email")
	addCounselorCmd.Flags().String("password", "", "counselor password")
	_ = addCounselorCmd.MarkFlagRequired("email")
}

func addCounselor(cfg *config.Config, logger *zap.Logger, email, password string) (string, error) {
	if cfg.Storage.Driver == config.DriverMemory && cfg.Storage.SnapshotPath == "" {
		return "", errors.New("memory store without snapshot_path cannot keep accounts; set storage.snapshot_path or use sqlite")
	}
	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := closeStore(); cerr != nil {
			logger.Warn("failed to close store", zap.Error(cerr))
		}
	}()
	id, err := api.CreateCounselor(store, email, password)
	if err != nil {
		return "", fmt.Errorf("create counselor: %w", err)
	}
	logger.Info("counselor account created", zap.String("user_id", id))
	return id, nil
}
