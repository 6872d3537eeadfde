package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kdudkov/groupmemo/internal/config"
	"github.com/kdudkov/groupmemo/internal/database"
	"github.com/kdudkov/groupmemo/internal/service"
)

func readPassword() (string, bool) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("password: ")
	p1, _ := reader.ReadString('\n')
	fmt.Print("repeat password: ")
	p2, _ := reader.ReadString('\n')

	if p1 != p2 {
		return "", false
	}

	return strings.TrimRight(p1, "\r\n"), true
}

func main() {
	fs := pflag.NewFlagSet("userctl", pflag.ExitOnError)
	conf := fs.String("config", "groupmemo.yml", "name of config file")
	fs.String("db", "groupmemo.sqlite", "database")
	email := fs.String("email", "", "user email")
	name := fs.String("user", "", "username for a new user")
	passwd := fs.String("password", "", "password")
	_ = fs.Parse(os.Args[1:])

	cfg := config.NewAppConfig()
	cfg.LoadEnv(config.EnvPrefix)
	_ = cfg.BindFlags(fs)
	cfg.Load(*conf)

	db, err := database.GetDatabase(cfg.DB(), false)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	dbm := database.New(db)
	if err := dbm.Migrate(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	svc := service.New(dbm, nil)

	if *email == "" {
		users, err := svc.ListUsers()
		if err != nil {
			fmt.Println(err.Error())
			os.Exit(1)
		}

		for _, u := range users {
			fmt.Printf("%d\t%s\t%s\t%s\n", u.ID, u.Email, u.Username, u.CreatedAt.Format("2006-01-02 15:04"))
		}

		return
	}

	pass := *passwd
	if pass == "" {
		var ok bool

		if pass, ok = readPassword(); !ok {
			fmt.Println("\npassword mismatch")
			os.Exit(1)
		}
	}

	if *name != "" {
		u, err := svc.Register(*name, *email, pass)
		if err != nil {
			fmt.Println(err.Error())
			os.Exit(1)
		}

		fmt.Printf("user %s created with id %d\n", u.Email, u.ID)

		return
	}

	u, err := svc.ResetPassword(*email, pass)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	fmt.Printf("password changed for %s\n", u.Email)
}
