package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli"
	"github.com/viant/kproc/logger"
	"github.com/viant/kproc/model/proc"
	"github.com/viant/kproc/service/dao"
	snapfs "github.com/viant/kproc/service/dao/snapshot/fs"
)

var psFlags = []cli.Flag{
	configFlag,
	cli.BoolFlag{
		Name:  "all, a",
		Usage: "include unused slots",
	},
}

func ps(c *cli.Context) error {
	ctx := context.Background()
	store, err := snapshotStore(ctx, c.String("config"))
	if err != nil {
		return err
	}
	var snapshot *proc.Snapshot
	if id := c.Args().First(); id != "" {
		if snapshot, err = store.Load(ctx, id); err != nil {
			return err
		}
	} else {
		snapshots, err := store.List(ctx)
		if err != nil {
			return err
		}
		if len(snapshots) == 0 {
			return errors.New("no snapshots saved")
		}
		snapshot = snapshots[len(snapshots)-1]
	}
	fmt.Fprintf(c.App.Writer, "snapshot %v at tick %d\n", snapshot.ID, snapshot.Ticks)
	if c.Bool("all") {
		renderSlots(c.App.Writer, snapshot.Stats)
	} else {
		renderTable(c.App.Writer, snapshot)
	}
	return nil
}

func stat(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("stat needs two snapshot ids")
	}
	ctx := context.Background()
	store, err := snapshotStore(ctx, c.String("config"))
	if err != nil {
		return err
	}
	from, err := store.Load(ctx, c.Args().Get(0))
	if err != nil {
		return err
	}
	to, err := store.Load(ctx, c.Args().Get(1))
	if err != nil {
		return err
	}
	diff, err := diffSnapshots(from, to)
	if err != nil {
		return err
	}
	fmt.Fprint(c.App.Writer, diff)
	return nil
}

// snapshotStore opens the snapshot store configured at URL. Only a
// persistent store can outlive the run that filled it.
func snapshotStore(ctx context.Context, URL string) (dao.Service[string, proc.Snapshot], error) {
	cfg, err := loadConfig(ctx, URL)
	if err != nil {
		return nil, err
	}
	if cfg.Snapshots.URL == "" {
		return nil, errors.New("snapshots.url is not configured")
	}
	return snapfs.New(cfg.Snapshots.URL, logger.NewNopLogger())
}
