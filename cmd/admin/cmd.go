package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/fbomateus/gestao-tcc/internal/dto"
)

var (
	readPasswordFunc = term.ReadPassword // substituível nos testes

	errHelp             = errors.New("ajuda exibida")
	errPasswordMismatch = errors.New("as senhas não conferem")
)

// userAdmin operações de conta usadas pela CLI
type userAdmin interface {
	EnsureAdmin(ctx context.Context, username, email, nome, password string) (*dto.UserResponse, bool, error)
	SetPassword(ctx context.Context, username, password string) error
}

type commandLine struct {
	users   userAdmin
	migrate func() error
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Uso:")
	fmt.Fprintln(cli.out, "  migrate                                         - aplica as migrações pendentes")
	fmt.Fprintln(cli.out, "  createadmin -username U -email E [-nome N]      - cria ou promove um administrador")
	fmt.Fprintln(cli.out, "  resetpassword -username U                       - troca a senha de um usuário")
}

// run args inclui o nome do programa em args[0]
func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		return cli.migrate()

	case "createadmin":
		fs := flag.NewFlagSet("createadmin", flag.ContinueOnError)
		fs.SetOutput(cli.out)
		username := fs.String("username", "", "login do administrador")
		email := fs.String("email", "", "e-mail do administrador")
		nome := fs.String("nome", "", "nome completo (padrão: username)")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		if *username == "" || *email == "" {
			fs.Usage()
			return errHelp
		}

		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if *nome == "" {
			*nome = *username
		}
		user, created, err := cli.users.EnsureAdmin(ctx, *username, *email, *nome, pwd)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cli.out, "administrador %s criado (%s)\n", user.Username, user.ID)
		} else {
			fmt.Fprintf(cli.out, "usuário %s promovido a administrador\n", user.Username)
		}
		return nil

	case "resetpassword":
		fs := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
		fs.SetOutput(cli.out)
		username := fs.String("username", "", "login do usuário; a senha é pedida em seguida")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		if *username == "" {
			fs.Usage()
			return errHelp
		}

		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if err := cli.users.SetPassword(ctx, *username, pwd); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "senha de %s alterada\n", *username)
		return nil

	default:
		cli.printUsage()
		return errHelp
	}
}

// promptPassword lê a senha duas vezes sem eco
func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Senha: ")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errHelp
	}

	fmt.Fprint(cli.out, "Senha (novamente): ")
	confirm, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if string(pwd) != string(confirm) {
		return "", errPasswordMismatch
	}
	return string(pwd), nil
}
