package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/ensproxy"
	"github.com/everFinance/ensproxy/ens"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name: "ensproxy",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db_dir", Value: "./data/bolt", Usage: "bolt db dir path", EnvVars: []string{"DB_DIR"}},
			&cli.StringFlag{Name: "mysql", Value: "root@tcp(127.0.0.1:3306)/ensproxy?charset=utf8mb4&parseTime=True&loc=Local", Usage: "mysql dsn", EnvVars: []string{"MYSQL"}},
			&cli.StringFlag{Name: "sqlite_dir", Value: "./data/sqlite", Usage: "sqlite dir path", EnvVars: []string{"SQLITE_DIR"}},
			&cli.BoolFlag{Name: "use_sqlite", Value: false, Usage: "run with sqlite", EnvVars: []string{"USE_SQLITE"}},

			&cli.BoolFlag{Name: "s3_flag", Value: false, Usage: "run audit store with s3", EnvVars: []string{"S3_FLAG"}},
			&cli.StringFlag{Name: "s3_acc_key", Value: "", Usage: "s3 access key", EnvVars: []string{"S3_ACC_KEY"}},
			&cli.StringFlag{Name: "s3_secret_key", Value: "", Usage: "s3 secret key", EnvVars: []string{"S3_SECRET_KEY"}},
			&cli.StringFlag{Name: "s3_prefix", Value: "ensproxy", Usage: "s3 bucket name prefix", EnvVars: []string{"S3_PREFIX"}},
			&cli.StringFlag{Name: "s3_region", Value: "ap-northeast-1", Usage: "s3 bucket region", EnvVars: []string{"S3_REGION"}},
			&cli.StringFlag{Name: "s3_endpoint", Value: "", Usage: "s3 endpoint", EnvVars: []string{"S3_ENDPOINT"}},

			&cli.StringFlag{Name: "rpc", Value: "https://rpc.ankr.com/eth", Usage: "ethereum json-rpc url", EnvVars: []string{"RPC"}},
			&cli.StringFlag{Name: "prv_hex", Usage: "operator private key hex", EnvVars: []string{"PRV_HEX"}},
			&cli.StringFlag{Name: "owner", Usage: "administrator address", EnvVars: []string{"OWNER"}},
			&cli.StringFlag{Name: "registry", Value: "0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e", Usage: "name registry address", EnvVars: []string{"REGISTRY"}},
			&cli.StringFlag{Name: "base_registrar", Value: "0x57f1887a8BF19b14fC0dF6Fd9B2acc9Af147eA85", Usage: "base registrar address", EnvVars: []string{"BASE_REGISTRAR"}},
			&cli.StringFlag{Name: "controller", Value: "", Usage: "registrar controller address, can be set later via admin api", EnvVars: []string{"CONTROLLER"}},

			&cli.StringFlag{Name: "kafka_uri", Value: "127.0.0.1:9092", EnvVars: []string{"KAFKA_URI"}},
			&cli.BoolFlag{Name: "enable_kafka", Value: false, EnvVars: []string{"ENABLE_KAFKA"}},

			&cli.StringFlag{Name: "port", Value: ":8080", EnvVars: []string{"PORT"}},
		},
		Action: run,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	cli, err := ens.NewClient(c.String("rpc"), c.String("prv_hex"))
	if err != nil {
		return err
	}
	registry, err := ens.NewRegistry(cli, common.HexToAddress(c.String("registry")))
	if err != nil {
		return err
	}
	baseRegistrar, err := ens.NewBaseRegistrar(cli, common.HexToAddress(c.String("base_registrar")))
	if err != nil {
		return err
	}

	newController := func(addr common.Address) (ensproxy.RegistrarController, error) {
		return ens.NewController(cli, addr)
	}
	newResolver := func(addr common.Address) (ensproxy.Resolver, error) {
		return ens.NewResolver(cli, addr)
	}

	var controller ensproxy.RegistrarController
	if addr := c.String("controller"); addr != "" {
		controller, err = newController(common.HexToAddress(addr))
		if err != nil {
			return err
		}
	}

	s := ensproxy.New(
		c.String("db_dir"), c.String("mysql"), c.String("sqlite_dir"), c.Bool("use_sqlite"),
		c.Bool("s3_flag"), c.String("s3_acc_key"), c.String("s3_secret_key"), c.String("s3_prefix"), c.String("s3_region"), c.String("s3_endpoint"),
		common.HexToAddress(c.String("owner")),
		ensproxy.Upstream{
			Registry:      registry,
			BaseRegistrar: baseRegistrar,
			Controller:    controller,
			Transferor:    cli,
			NewController: newController,
			NewResolver:   newResolver,
		},
		c.String("kafka_uri"), c.Bool("enable_kafka"),
	)
	s.Run(c.String("port"))

	<-signals
	s.Close()

	return nil
}
