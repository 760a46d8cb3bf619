package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/tapd/internal/device"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available multi-touch devices",
	Long: `List every multi-touch capable input device with the USB id and
axis ranges tapd sees, for use in the configuration file.`,
	RunE: runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, _ []string) error {
	devices, err := device.List()
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		cmd.Println("No multi-touch devices found.")
		cmd.Println()
		cmd.Println("Troubleshooting:")
		cmd.Println("  - Check if the touchscreen is connected")
		cmd.Println("  - Run 'libinput list-devices' to see all devices")
		cmd.Println("  - Run as root if devices are not visible")
		return fmt.Errorf("no devices")
	}

	for i, dev := range devices {
		cmd.Printf("Device %d:\n", i+1)
		cmd.Printf("  Path:      %s\n", dev.Path)
		cmd.Printf("  Name:      %s\n", dev.Name)
		cmd.Printf("  USB ID:    %s\n", dev.USBID())
		cmd.Printf("  Phys:      %s\n", dev.Phys)
		cmd.Printf("  X range:   %.0f..%.0f\n", dev.XRange.Min, dev.XRange.Max)
		cmd.Printf("  Y range:   %.0f..%.0f\n", dev.YRange.Min, dev.YRange.Max)
		cmd.Println()
		dev.Close()
	}

	cmd.Printf("Found %d touch device(s).\n\n", len(devices))
	cmd.Println("Add the USB ID to your gestures.toml:")
	cmd.Println("  [device.<name>]")
	cmd.Println("  device_usb_id = \"<USB ID>\"")
	cmd.Println("  enabled = true")
	return nil
}
