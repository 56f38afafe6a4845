package main

import (
	"flag"
	"io"
)

type exportFlags struct {
	Input        *string
	Config       *string
	MaterialName *string
	OutputName   *string
	ProjectDir   *string
	Precision    *int
	UpAxis       *string
	LogLevel     *string
	Help         *bool

	// long name of every shorthand, so explicit flags can be reported by long name
	shortHands map[string]string
	fs         *flag.FlagSet
}

func parseFlags(args []string, output io.Writer, defaults exportDefaults) (*exportFlags, error) {
	f := &exportFlags{
		shortHands: make(map[string]string),
		fs:         flag.NewFlagSet("collider-export", flag.ContinueOnError),
	}
	f.fs.SetOutput(output)

	f.Input = f.defineString("input", "i", "", "Specifies the input scene file or a go-getter URL. May also be given as the first argument.")
	f.Config = f.defineString("config", "c", "", "YAML config file. Flags given on the command line override its values.")
	f.MaterialName = f.defineString("material", "m", defaults.MaterialName, "Name of the first material slot to export.")
	f.OutputName = f.defineString("output", "o", defaults.OutputName, "Output file name without the .json extension.")
	f.ProjectDir = f.defineString("project-dir", "d", "", "Directory the export is written to. Defaults to the input file's directory.")
	f.Precision = f.defineInt("precision", "p", defaults.Precision, "Decimals kept in the output, 0 keeps full precision.")
	f.UpAxis = f.defineString("up-axis", "u", "", "Up axis of the input, 'y' or 'z'. Defaults to the format's convention.")
	f.LogLevel = f.defineString("log-level", "l", defaults.LogLevel, "Log level: debug, info, warn or error.")
	f.Help = f.defineBool("help", "h", false, "Displays this help.")

	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	if *f.Input == "" && f.fs.NArg() > 0 {
		*f.Input = f.fs.Arg(0)
	}
	return f, nil
}

type exportDefaults struct {
	MaterialName string
	OutputName   string
	Precision    int
	LogLevel     string
}

// explicit returns the long names of the flags set on the command line.
func (f *exportFlags) explicit() map[string]bool {
	set := make(map[string]bool)
	f.fs.Visit(func(fl *flag.Flag) {
		name := fl.Name
		if long, ok := f.shortHands[name]; ok {
			name = long
		}
		set[name] = true
	})
	if *f.Input != "" {
		set["input"] = true
	}
	return set
}

func (f *exportFlags) usage() {
	f.fs.Usage()
}

func (f *exportFlags) defineString(name string, shortHand string, defaultValue string, usage string) *string {
	var output string
	f.fs.StringVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		f.fs.StringVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
		f.shortHands[shortHand] = name
	}
	return &output
}

func (f *exportFlags) defineInt(name string, shortHand string, defaultValue int, usage string) *int {
	var output int
	f.fs.IntVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		f.fs.IntVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
		f.shortHands[shortHand] = name
	}
	return &output
}

func (f *exportFlags) defineBool(name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	f.fs.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		f.fs.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
		f.shortHands[shortHand] = name
	}
	return &output
}
