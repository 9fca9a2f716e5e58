package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"firestige.xyz/sharp/internal/filename"
)

// filenameCmd represents the filename command group
var filenameCmd = &cobra.Command{
	Use:   "filename",
	Short: "Encode and decode science file names",
	Long: `Encode and decode PADRE science file names.

Subcommands:
  encode  - Build a file name from its fields
  decode  - Parse file names into their fields`,
}

var filenameEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Build a science file name",
	Long: `Build a compliant science file name from its fields.

Examples:
  sharp filename encode --instrument sharp --time 2024-04-06T12:06:21 --level l1 --version 1.2.3
  sharp filename encode --instrument sharp --time 2024-04-06T12:06:21 --level l0 --version 0.1.0 --descriptor spec --test`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runFilenameEncode(newCodec(cfg), encodeParams, cmd.OutOrStdout())
	},
}

var filenameDecodeCmd = &cobra.Command{
	Use:   "decode <name>...",
	Short: "Parse science file names",
	Long: `Parse one or more science file names and print their fields as YAML.
Directories are ignored. Raw telemetry names (PADRESP13_250503042550.DAT)
are recognized as well.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runFilenameDecode(newCodec(cfg), args, cmd.OutOrStdout())
	},
}

var encodeParams filename.Params

func init() {
	filenameCmd.AddCommand(filenameEncodeCmd)
	filenameCmd.AddCommand(filenameDecodeCmd)

	f := filenameEncodeCmd.Flags()
	f.StringVarP(&encodeParams.Instrument, "instrument", "i", "", "instrument name (required)")
	f.StringVarP(&encodeParams.TimeText, "time", "t", "", "observation time, ISO 8601 (required)")
	f.StringVarP(&encodeParams.Level, "level", "l", "", "data level (required)")
	f.StringVarP(&encodeParams.Version, "version", "v", "", "data version X.Y.Z (required)")
	f.StringVarP(&encodeParams.Descriptor, "descriptor", "d", "", "optional data descriptor")
	f.StringVarP(&encodeParams.Mode, "mode", "m", "", "optional instrument mode")
	f.BoolVar(&encodeParams.Test, "test", false, "mark the file as test data")
	for _, name := range []string{"instrument", "time", "level", "version"} {
		filenameEncodeCmd.MarkFlagRequired(name)
	}
}

func runFilenameEncode(codec *filename.Codec, p filename.Params, w io.Writer) error {
	name, err := codec.Encode(p)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, name)
	return nil
}

// decodedName is the printed form of a decoded name.
type decodedName struct {
	Name       string `yaml:"name"`
	Mission    string `yaml:"mission,omitempty"`
	Instrument string `yaml:"instrument"`
	Mode       string `yaml:"mode,omitempty"`
	Level      string `yaml:"level,omitempty"`
	Test       bool   `yaml:"test,omitempty"`
	Descriptor string `yaml:"descriptor,omitempty"`
	Time       string `yaml:"time,omitempty"`
	Version    string `yaml:"version,omitempty"`
	Extension  string `yaml:"extension"`
	// Placeholder marks raw-extension names that are not decoded further.
	Placeholder bool `yaml:"placeholder,omitempty"`
}

func runFilenameDecode(codec *filename.Codec, names []string, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, name := range names {
		view, err := decodeName(codec, name)
		if err != nil {
			return err
		}
		if err := enc.Encode(view); err != nil {
			return err
		}
	}
	return enc.Close()
}

func decodeName(codec *filename.Codec, name string) (decodedName, error) {
	if raw, err := codec.DecodeRaw(name); err == nil {
		return decodedName{
			Name:       name,
			Instrument: raw.Instrument,
			Level:      raw.Level,
			Time:       raw.Time.Format(time.RFC3339),
			Extension:  raw.Extension,
		}, nil
	}

	f, err := codec.Decode(name)
	if err != nil {
		return decodedName{}, err
	}
	view := decodedName{
		Name:        name,
		Mission:     f.Mission,
		Instrument:  f.Instrument,
		Extension:   f.Extension,
		Placeholder: f.IsPlaceholder(),
	}
	if !f.IsPlaceholder() {
		view.Mode = f.Mode
		view.Level = f.Level
		view.Test = f.Test
		view.Descriptor = f.Descriptor
		view.Time = f.Time.Format(time.RFC3339)
		view.Version = f.Version.String()
	}
	return view, nil
}
