package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/egaillera/reserva-restaurantes/extract"
	"github.com/egaillera/reserva-restaurantes/phrase"
	"github.com/egaillera/reserva-restaurantes/session"
	"github.com/google/uuid"
)

func main() {
	conf := flag.String("config", "config.json", "path to config file")
	flag.Parse()
	config, err := loadConfig(*conf)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := startApp(context.Background(), config); err != nil {
		log.Fatalf("start app: %v", err)
	}
}

func startApp(ctx context.Context, config *Config) error {
	slog.SetLogLoggerLevel(slog.LevelInfo)

	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  config.APIKey,
		Model:   config.Model,
		BaseURL: config.BaseURL,
	})
	if err != nil {
		return err
	}

	extractor, err := extract.NewToolBasedExtractor(cm)
	if err != nil {
		return err
	}
	var phraserOpts []phrase.Option
	if config.Lang != "" {
		phraserOpts = append(phraserOpts, phrase.WithLang(config.Lang))
	}
	phraser := phrase.NewFailbackPhraser(
		phrase.NewToolBasedPhraser(cm, phraserOpts...),
		&phrase.LocalPhraser{},
	)

	flow, err := session.NewFlow(extractor, phraser)
	if err != nil {
		return err
	}
	sess := session.New(
		flow,
		session.NewMemoryStateStore(),
		session.NewMemoryHistoryStore(session.LastNTrimmer{N: 50}),
	)

	sessionID := uuid.NewString()
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Bienvenido al asistente de reservas. Detalla tu reserva:")
	for {
		fmt.Print("Usuario: ")
		line, rErr := reader.ReadString('\n')
		if rErr != nil {
			fmt.Println("Entrada finalizada. Hasta pronto.")
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		reply, sErr := sess.SubmitUtterance(ctx, sessionID, line)
		if sErr != nil {
			if errors.Is(sErr, session.ErrExtractionUnavailable) || errors.Is(sErr, session.ErrPhrasingUnavailable) {
				fmt.Println("Asistente: Ha habido un problema temporal, repita su mensaje por favor.")
				continue
			}
			return sErr
		}
		if reply.Message != "" {
			fmt.Printf("Asistente: %s\n", reply.Message)
		}
		if reply.Completed {
			fmt.Println(reply.Record.Summary())
			return sess.End(ctx, sessionID)
		}
	}
}
