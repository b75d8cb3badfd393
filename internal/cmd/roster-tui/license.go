package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/leighmacdonald/roster-tui/internal/license"
	"github.com/leighmacdonald/roster-tui/internal/store"
	"github.com/spf13/cobra"
)

var (
	errLicenseArgs = errors.New("invalid license arguments")

	licenseType       string
	licenseMaxDevices int
	licenseOwner      string
	licenseKey        string
	licenseValidFor   time.Duration
)

func licenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "license",
		Short: "Manage licenses in the local database",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new license",
		Args:  cobra.NoArgs,
		RunE:  licenseAdd,
	}
	addCmd.Flags().StringVar(&licenseType, "type", string(license.TypeStandard), "License type: premium, standard or trial")
	addCmd.Flags().IntVar(&licenseMaxDevices, "max-devices", 1, "Maximum number of devices")
	addCmd.Flags().StringVar(&licenseOwner, "owner", "", "Owner of the license")
	addCmd.Flags().StringVar(&licenseKey, "key", "", "Use this key instead of generating one")
	addCmd.Flags().DurationVar(&licenseValidFor, "valid-for", 0, "Expire the license after this duration, 0 never expires")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all licenses",
		Args:  cobra.NoArgs,
		RunE:  licenseList,
	}

	statusCmd := &cobra.Command{
		Use:   "set-status <key> <active|expired|suspended>",
		Short: "Change the status of a license",
		Args:  cobra.ExactArgs(2),
		RunE:  licenseSetStatus,
	}

	devicesCmd := &cobra.Command{
		Use:   "devices <key>",
		Short: "List the devices bound to a license",
		Args:  cobra.ExactArgs(1),
		RunE:  licenseDevices,
	}

	cmd.AddCommand(addCmd, listCmd, statusCmd, devicesCmd)

	return cmd
}

func openQueries(cmd *cobra.Command) (*store.Queries, func(), error) {
	_, _, database, closer, err := setup(cmd.Context(), nil)
	if err != nil {
		return nil, nil, err
	}

	return store.New(database), closer, nil
}

func licenseAdd(cmd *cobra.Command, _ []string) error {
	lic, errLicense := license.New(licenseKey, license.Type(licenseType), licenseMaxDevices, licenseOwner,
		licenseValidFor, time.Now().UTC())
	if errLicense != nil {
		return errLicense
	}

	queries, closer, err := openQueries(cmd)
	if err != nil {
		return err
	}
	defer closer()

	if errPut := queries.PutLicense(cmd.Context(), lic); errPut != nil {
		return errors.Join(errPut, errApp)
	}

	fmt.Println(lic.Key) //nolint:forbidigo

	return nil
}

func licenseList(cmd *cobra.Command, _ []string) error {
	queries, closer, err := openQueries(cmd)
	if err != nil {
		return err
	}
	defer closer()

	licenses, errList := queries.ListLicenses(cmd.Context())
	if errList != nil {
		return errors.Join(errList, errApp)
	}

	rows := make([][]string, 0, len(licenses))
	for _, lic := range licenses {
		expires := "never"
		if lic.ExpiresAt != nil {
			expires = humanize.Time(*lic.ExpiresAt)
		}

		rows = append(rows, []string{
			lic.Key, string(lic.Status), string(lic.Type), strconv.Itoa(lic.MaxDevices),
			lic.Owner, lic.PurchasedAt.Format(time.DateOnly), expires,
		})
	}

	printTable([]string{"Key", "Status", "Type", "Devices", "Owner", "Purchased", "Expires"}, rows)

	return nil
}

func licenseSetStatus(cmd *cobra.Command, args []string) error {
	status := license.Status(args[1])
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", errLicenseArgs, args[1])
	}

	queries, closer, err := openQueries(cmd)
	if err != nil {
		return err
	}
	defer closer()

	lic, errGet := queries.GetLicense(cmd.Context(), license.NormalizeKey(args[0]))
	if errGet != nil {
		return errors.Join(errGet, errApp)
	}

	lic.Status = status
	if errPut := queries.PutLicense(cmd.Context(), lic); errPut != nil {
		return errors.Join(errPut, errApp)
	}

	return nil
}

func licenseDevices(cmd *cobra.Command, args []string) error {
	queries, closer, err := openQueries(cmd)
	if err != nil {
		return err
	}
	defer closer()

	devices, errList := queries.ListDevices(cmd.Context(), license.NormalizeKey(args[0]))
	if errList != nil {
		return errors.Join(errList, errApp)
	}

	rows := make([][]string, 0, len(devices))
	for _, dev := range devices {
		rows = append(rows, []string{
			dev.DeviceID, dev.RegisteredAt.Format(time.DateTime), humanize.Time(dev.LastUsed),
		})
	}

	printTable([]string{"Device", "Registered", "Last Used"}, rows)

	return nil
}

func printTable(headers []string, rows [][]string) {
	out := table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		BorderTop(false).
		BorderBottom(false).
		Headers(headers...).
		Rows(rows...)

	fmt.Fprintln(os.Stdout, out.Render()) //nolint:forbidigo
}
