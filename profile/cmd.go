package profile

import (
	"fmt"

	"github.com/lai323/kanjidrill/config"
	"github.com/lai323/kanjidrill/db"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type Options struct {
	Name   string
	Avatar string
	Import string
	Export string
}

func (o Options) edits() bool {
	return o.Name != "" || o.Avatar != "" || o.Import != "" || o.Export != ""
}

func Run(cfg *config.Config, fs afero.Fs, options *Options) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		drilldb, err := db.NewBoltDrillDB(cfg.DbFile())
		if err != nil {
			return err
		}
		defer drilldb.Close()

		if !options.edits() {
			return Start(fs, drilldb)
		}
		return apply(cmd, fs, drilldb, cfg.StoragePath, *options)
	}
}

// apply runs the flag edits in a fixed order: import, rename, avatar, export.
func apply(cmd *cobra.Command, fs afero.Fs, drilldb db.DrillDB, storageDir string, options Options) error {
	out := cmd.OutOrStdout()
	if options.Import != "" {
		p, err := db.ProfileImport(fs, options.Import, drilldb)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "imported profile of %s\n", p.Username)
	}
	if options.Name != "" {
		p, err := Rename(drilldb, options.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "username set to %s\n", p.Username)
	}
	if options.Avatar != "" {
		p, err := SetAvatar(fs, drilldb, storageDir, options.Avatar)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "avatar saved to %s\n", p.AvatarPath)
	}
	if options.Export != "" {
		if err := db.ProfileExport(fs, options.Export, drilldb); err != nil {
			return err
		}
		fmt.Fprintf(out, "profile exported to %s\n", options.Export)
	}
	return nil
}
