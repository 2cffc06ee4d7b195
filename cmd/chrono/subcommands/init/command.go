package init

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/opst/chronodemica/cmd/chrono/subcommands/common"
	"github.com/opst/chronodemica/pkg/config/profiles"
	"github.com/youta-t/flarc"
	"gopkg.in/yaml.v3"
)

const ARG_PROFILE_FILE = "PROFILE_FILE"

type Option struct {
	dir string
}

// WithDirectory sets the directory where the profile marker is written.
func WithDirectory(dir string) func(*Option) *Option {
	return func(o *Option) *Option {
		o.dir = dir
		return o
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{dir: "."}
	for _, o := range options {
		option = o(option)
	}

	return flarc.NewCommand(
		"Register a profile and use it in this directory.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_PROFILE_FILE, Required: true,
				Help: "filepath to a profile file (yaml).",
			},
		},
		common.NewTaskWithCommonFlag(Task(option.dir)),
		flarc.WithDescription(`
Register a new profile into your profile store.

A profile is a yaml file telling the endpoint of the backend, like

    apiRoot: http://localhost:8000/api/v1
    timeout: 30s

The name of the profile is given by "--profile" ( default: "default" ).
After registration, commands in this directory use the profile.
`),
	)
}

func Task(dir string) common.TaskWithCommonFlag[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		cf common.CommonFlags,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		profFile := cl.Args()[ARG_PROFILE_FILE][0]

		store, err := profiles.LoadProfileStore(cf.ProfileStore)
		if errors.Is(err, profiles.ErrProfileStoreNotFound) {
			store = profiles.ProfileStore{}
		} else if err != nil {
			return fmt.Errorf("failed to load profile store (%s): %w", cf.ProfileStore, err)
		}

		newProf := new(profiles.Profile)
		content, err := os.ReadFile(profFile)
		if err != nil {
			return fmt.Errorf("failed to read profile file (%s): %w", profFile, err)
		}
		if err := yaml.Unmarshal(content, newProf); err != nil {
			return fmt.Errorf("failed to parse profile file (%s): %w", profFile, err)
		}
		if err := newProf.Verify(); err != nil {
			return fmt.Errorf("%s: %w", profFile, err)
		}

		store[cf.Profile] = newProf
		if err := store.Save(cf.ProfileStore); err != nil {
			return fmt.Errorf("failed to save profile store (%s): %w", cf.ProfileStore, err)
		}
		logger.Printf("profile %s is saved to %s", cf.Profile, cf.ProfileStore)

		marker := filepath.Join(dir, common.ProfileMarker)
		if err := os.WriteFile(marker, []byte(cf.Profile), os.FileMode(0600)); err != nil {
			return fmt.Errorf("failed to write %s: %w", marker, err)
		}
		return nil
	}
}
