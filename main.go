package main

import (
	"flag"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cloudflare/tableflip"
	"github.com/omalloc/proxy/selector"
	"github.com/omalloc/proxy/selector/once"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/omalloc/rangevault/conf"
	"github.com/omalloc/rangevault/contrib/app"
	"github.com/omalloc/rangevault/contrib/config"
	"github.com/omalloc/rangevault/contrib/config/provider/file"
	"github.com/omalloc/rangevault/contrib/log"
	"github.com/omalloc/rangevault/contrib/transport"
	"github.com/omalloc/rangevault/httpcache"
	"github.com/omalloc/rangevault/proxy"
	"github.com/omalloc/rangevault/server"
)

var (
	id, _ = os.Hostname()

	// flagConf is the config flag.
	flagConf string = "config.yaml"
	// flagVerbose is the verbose flag.
	flagVerbose bool

	// Version is the version of the app.
	Version string = "no-set"
	GitHash string = "no-set"
	Built   string = "0"
)

func init() {
	flag.StringVar(&flagConf, "c", "config.yaml", "config file path")
	flag.BoolVar(&flagVerbose, "v", false, "enable verbose log")

	log.SetLogger(log.With(log.DefaultLogger, "ts", log.Timestamp(time.RFC3339), "pid", os.Getpid()))

	prometheus.Unregister(collectors.NewGoCollector())
	registerer := prometheus.WrapRegistererWithPrefix("rangevault_", prometheus.DefaultRegisterer)
	registerer.MustRegister(collectors.NewGoCollector(collectors.WithGoCollectorMemStatsMetricsDisabled()))
}

func main() {
	flag.Parse()

	c := config.New[conf.Bootstrap](config.WithSource(file.NewSource(flagConf)))
	defer c.Close()

	bc := &conf.Bootstrap{}
	if err := c.Scan(bc); err != nil {
		log.Fatal(err)
	}

	a, err := newApp(bc)
	if err != nil {
		log.Fatal(err)
	}

	if err := a.Run(); err != nil {
		log.Fatal(err)
	}
}

func newApp(bc *conf.Bootstrap) (*app.App, error) {
	stopTimeout := 120 * time.Second

	// graceful upgrade
	flip, err := tableflip.New(tableflip.Options{
		PIDFile:        bc.PidFile,
		UpgradeTimeout: stopTimeout,
	})
	if err != nil {
		panic(err)
	}

	// graceful upgrade if we have not parent process
	// remove unix socket file.
	if !flip.HasParent() {
		if strings.HasSuffix(bc.Server.Addr, ".sock") {
			_ = os.Remove(bc.Server.Addr) // remove unix socket
		}
	}

	// init upstream
	nodes := make([]selector.Node, 0, len(bc.Upstream.Address))
	for _, addr := range bc.Upstream.Address {
		u, err := url.Parse(addr)
		if err != nil {
			log.Errorf("parsed upstream.address failed %v", err)
			continue
		}
		log.Infof("add upstream scheme: %s, host: %s", u.Scheme, u.Host)
		nodes = append(nodes, selector.NewNode(u.Scheme, u.Host, selector.RawMetadata("weight", "1")))
	}

	p := proxy.New(
		proxy.WithSelector(once.New()),
		proxy.WithInitialNodes(nodes),
	)

	backend := proxy.NewBackend(p, int(bc.Cache.PerResourceLimit))
	cache := httpcache.NewService(backend, int(bc.Cache.CapacityBytes))

	servers := []transport.Server{
		server.NewServer(flip, bc, cache),
	}

	return app.New(
		app.ID(id),
		app.Name("rangevault"),
		app.Version(Version),
		app.StopTimeout(stopTimeout),
		app.Logger(log.GetLogger()),
		app.Server(servers...),
	), nil
}
