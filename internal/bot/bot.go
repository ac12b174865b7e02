// Package bot is the Telegram front-end. Each chat logs in to the API with
// its own client session.
package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tteodorogustavo/athlos/pkg/api"
	"github.com/tteodorogustavo/athlos/pkg/client"
	"github.com/tteodorogustavo/athlos/pkg/utils"
)

const (
	maxSessions    = 10000
	commandTimeout = 30 * time.Second
)

const (
	msgNeedLogin  = "🔒 Você precisa entrar primeiro: /login <email> <senha>"
	msgExpired    = "⌛ Sua sessão expirou. Entre novamente com /login <email> <senha>"
	msgUnknownCmd = "Comando desconhecido. Use /help"
)

const helpText = `📚 *Athlos*

/login <email> <senha> - Entrar
/logout - Sair
/me - Seus dados
/treinos - Lista de treinos
/treino <id> - Detalhes de um treino
/dashboard - Resumo do seu painel
/relatorio [semana|mes|trimestre|ano] - Relatório do período`

// Sender is the part of the Telegram API the bot talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type BotApp struct {
	API *tgbotapi.BotAPI

	sender   Sender
	sessions *Sessions
}

// NewBotApp connects to Telegram and prepares sessions against the API at
// apiURL.
func NewBotApp(token, apiURL string) (*BotApp, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "connect to telegram")
	}
	b, err := newBotApp(botAPI, apiURL)
	if err != nil {
		return nil, err
	}
	b.API = botAPI
	return b, nil
}

func newBotApp(sender Sender, apiURL string, opts ...client.Option) (*BotApp, error) {
	logger := utils.Log.Named("client").Zap()
	sessions, err := NewSessions(maxSessions, func(nav client.Navigator) *client.Client {
		all := append([]client.Option{client.WithNavigator(nav), client.WithLogger(logger)}, opts...)
		return client.New(apiURL, all...)
	})
	if err != nil {
		return nil, err
	}
	return &BotApp{sender: sender, sessions: sessions}, nil
}

// Run polls for updates until ctx is cancelled.
func (b *BotApp) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.API.GetUpdatesChan(u)
	utils.Log.Info("Bot started", zap.String("username", b.API.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.API.StopReceivingUpdates()
			utils.Log.Info("Bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate reacts to one incoming message.
func (b *BotApp) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Chat == nil {
		return
	}
	msg := update.Message

	if !msg.IsCommand() {
		b.sendText(msg.Chat.ID, "Use /help para ver os comandos disponíveis.")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	b.handleCommand(ctx, msg)
}

func (b *BotApp) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	sess := b.sessions.Get(chatID)
	args := strings.Fields(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		b.sendText(chatID, "👋 Bem-vindo ao Athlos!\n\n"+helpText)
	case "help":
		b.sendText(chatID, helpText)
	case "login":
		b.login(ctx, sess, msg, args)
	case "logout":
		sess.Logout()
		b.sendText(chatID, "👋 Você saiu. Até logo!")
	case "me":
		b.withLogin(sess, func(user *api.User) {
			me, err := sess.Client.Me(ctx)
			if err != nil {
				b.replyError(sess, err)
				return
			}
			b.sendText(chatID, formatMe(me))
		})
	case "treinos":
		b.withLogin(sess, func(user *api.User) {
			treinos, err := sess.Client.Treinos.List(ctx, nil)
			if err != nil {
				b.replyError(sess, err)
				return
			}
			b.sendText(chatID, formatTreinos(treinos))
		})
	case "treino":
		b.withLogin(sess, func(user *api.User) {
			id, err := parseID(args)
			if err != nil {
				b.sendText(chatID, "Uso: /treino <id>")
				return
			}
			treino, err := sess.Client.Treinos.Get(ctx, id)
			if err != nil {
				b.replyError(sess, err)
				return
			}
			b.sendText(chatID, formatTreino(treino))
		})
	case "dashboard":
		b.withLogin(sess, func(user *api.User) {
			text, err := dashboard(ctx, sess.Client, user.UserType)
			if err != nil {
				b.replyError(sess, err)
				return
			}
			b.sendText(chatID, text)
		})
	case "relatorio":
		b.withLogin(sess, func(user *api.User) {
			periodo := api.PeriodoMes
			if len(args) > 0 {
				periodo = api.ParsePeriodo(strings.ToLower(args[0]))
			}
			text, err := report(ctx, sess.Client, user.UserType, periodo)
			if err != nil {
				b.replyError(sess, err)
				return
			}
			b.sendText(chatID, text)
		})
	default:
		b.sendText(chatID, msgUnknownCmd)
	}
}

func (b *BotApp) login(ctx context.Context, sess *Session, msg *tgbotapi.Message, args []string) {
	chatID := msg.Chat.ID
	if len(args) != 2 {
		b.sendText(chatID, "Uso: /login <email> <senha>")
		return
	}

	// the message carries the password
	if _, err := b.sender.Request(tgbotapi.NewDeleteMessage(chatID, msg.MessageID)); err != nil {
		utils.Log.Warn("Failed to delete login message", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	session, err := sess.Client.Login(ctx, args[0], args[1])
	if err != nil {
		utils.Log.Info("Login failed", zap.Int64("chat_id", chatID), zap.Error(err))
		b.sendText(chatID, "❌ Não foi possível entrar: "+escape(err.Error()))
		return
	}
	sess.setUser(session.User)
	utils.Log.Info("Chat logged in",
		zap.Int64("chat_id", chatID),
		zap.Uint("user_id", session.User.ID),
		zap.String("route", session.Route),
	)

	name := strings.TrimSpace(session.User.FirstName + " " + session.User.LastName)
	if name == "" {
		name = session.User.Email
	}
	b.sendText(chatID, "✅ Bem-vindo, "+escape(name)+"!\nPerfil: "+session.User.UserType.Label()+
		"\n\nUse /dashboard para ver seu painel.")
}

func (b *BotApp) withLogin(sess *Session, fn func(user *api.User)) {
	user := sess.User()
	if user == nil {
		b.sendText(sess.ChatID, msgNeedLogin)
		return
	}
	fn(user)
}

func (b *BotApp) replyError(sess *Session, err error) {
	if sess.TakeExpired() {
		b.sendText(sess.ChatID, msgExpired)
		return
	}
	if client.IsNotFound(err) {
		b.sendText(sess.ChatID, "🔍 Não encontrado.")
		return
	}
	utils.Log.Warn("API call failed", zap.Int64("chat_id", sess.ChatID), zap.Error(err))
	b.sendText(sess.ChatID, "❌ "+escape(err.Error()))
}

func parseID(args []string) (uint, error) {
	if len(args) != 1 {
		return 0, errors.New("expected one id")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || id == 0 {
		return 0, errors.Errorf("invalid id %q", args[0])
	}
	return uint(id), nil
}

func (b *BotApp) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := b.sender.Send(msg); err != nil {
		utils.Log.Warn("Markdown message rejected, resending as plain text",
			zap.Int64("chat_id", chatID), zap.Error(err))

		plain := tgbotapi.NewMessage(chatID, text)
		if _, err := b.sender.Send(plain); err != nil {
			utils.Log.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}
}
