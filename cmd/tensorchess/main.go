// Command tensorchess is the interactive explorer: a readline shell over one
// live session.
package main

import (
	"flag"
	"os"
	"runtime/pprof"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"

	"github.com/hailam/tensorchess/internal/repl"
	"github.com/hailam/tensorchess/internal/scenario"
	"github.com/hailam/tensorchess/internal/session"
	"github.com/hailam/tensorchess/internal/storage"
)

var (
	dataDir      = flag.String("data", "", "data directory (default: per-user data dir)")
	scenarioFlag = flag.String("scenario", "", "scenario to open (default: resume the last game)")
	cpuprofile   = flag.String("cpuprofile", "", "write cpu profile to file")
	verbose      = flag.Bool("v", false, "log session events")
)

func main() {
	flag.Parse()

	log.SetHandler(cli.New(os.Stderr))
	log.SetLevel(log.WarnLevel)
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.WithError(err).Fatal("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.WithError(err).Fatal("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.WithField("path", profilePath).Info("CPU profiling enabled")
	}

	dir, err := storage.ResolveDataDir(*dataDir)
	if err != nil {
		log.WithError(err).Fatal("resolve data dir")
	}
	dbDir, err := storage.DatabaseDir(dir)
	if err != nil {
		log.WithError(err).Fatal("create database dir")
	}
	store, err := storage.Open(dbDir)
	if err != nil {
		log.WithError(err).Fatal("open storage")
	}
	defer store.Close()

	sess, err := openSession(store, *scenarioFlag)
	if err != nil {
		log.WithError(err).Fatal("open session")
	}

	shell := repl.New(sess, store, os.Stdout)
	shell.Execute("d")
	if err := shell.Run(storage.HistoryFile(dir)); err != nil {
		log.WithError(err).Error("repl")
	}
}

// openSession starts on the requested scenario, or resumes the last saved
// game when none is given.
func openSession(store *storage.Storage, scenarioID string) (*session.Session, error) {
	if scenarioID != "" {
		return session.New(scenarioID, store)
	}

	sess, err := session.New(scenario.DefaultID, store)
	if err != nil {
		return nil, err
	}
	last, ok, err := store.LoadLastGame()
	if err != nil {
		log.WithError(err).Warn("load last game")
		return sess, nil
	}
	if !ok {
		return sess, nil
	}
	if sc, known := scenario.Find(last.Scenario); known && sc.Position().FEN() == last.FEN {
		return sess, sess.Load(sc.ID)
	}
	if err := sess.LoadFEN(last.FEN); err != nil {
		log.WithError(err).Warn("resume last game")
	}
	return sess, nil
}
