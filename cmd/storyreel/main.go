package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/browser"
	"github.com/spf13/pflag"

	"github.com/storyreel/storyreel/internal/api"
	"github.com/storyreel/storyreel/internal/build"
	"github.com/storyreel/storyreel/internal/manager"
	"github.com/storyreel/storyreel/internal/manager/config"
	"github.com/storyreel/storyreel/pkg/logger"
)

func main() {
	exitCode := 0
	defer func() {
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}()

	helpFlag := false
	pflag.BoolVarP(&helpFlag, "help", "h", false, "show this help text and exit")

	versionFlag := false
	pflag.BoolVarP(&versionFlag, "version", "v", false, "show version number and exit")

	exportFlag := false
	pflag.BoolVar(&exportFlag, "export-catalog", false, "write the scene catalog to stdout and exit")

	pflag.Parse()

	if helpFlag {
		pflag.Usage()
		return
	}

	if versionFlag {
		fmt.Println(build.VersionString())
		return
	}

	mgr, err := manager.Initialize()
	if err != nil {
		displayError(fmt.Errorf("initialization error: %w", err))
		exitCode = 1
		return
	}
	defer mgr.Shutdown()

	if exportFlag {
		if err := mgr.ExportCatalog(context.Background(), os.Stdout); err != nil {
			displayError(fmt.Errorf("exporting catalog: %w", err))
			exitCode = 1
		}
		return
	}

	server, err := api.Initialize()
	if err != nil {
		displayError(fmt.Errorf("initialization error: %w", err))
		exitCode = 1
		return
	}
	defer server.Close()

	exit := make(chan int)

	go func() {
		err := server.Start()
		if !errors.Is(err, http.ErrServerClosed) {
			displayError(fmt.Errorf("http server error: %w", err))
			exit <- 1
		}
	}()

	go handleSignals(exit)

	if !config.GetNoBrowser() {
		openBrowser(server.DisplayURL())
	}

	exitCode = <-exit
}

func openBrowser(url string) {
	// the browser's own output is not interesting
	browser.Stdout = nil
	browser.Stderr = nil

	if err := browser.OpenURL(url); err != nil {
		logger.Warnf("could not open browser: %v", err)
	}
}

func displayError(err error) {
	fmt.Fprintln(os.Stderr, err)
}

func handleSignals(exit chan<- int) {
	// handle signals
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	<-signals
	exit <- 0
}
