package infra

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config — корневая структура конфигурации бота.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Registry RegistryConfig `mapstructure:"registry"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Bot      BotConfig      `mapstructure:"bot"`
	GCP      GCPConfig      `mapstructure:"gcp"`
	Chat     ChatConfig     `mapstructure:"chat"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig описывает настройки HTTP-сервера.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr возвращает адрес для ListenAndServe
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RegistryConfig выбирает бэкенд реестра ожидающих заявок.
type RegistryConfig struct {
	Backend string        `mapstructure:"backend"` // memory | redis
	TTL     time.Duration `mapstructure:"ttl"`     // 0 = заявки не истекают
}

// RedisConfig описывает подключение к Redis (только для backend=redis).
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// BotConfig содержит список аппруверов и локаль выдаваемых сообщений.
type BotConfig struct {
	Approvers string `mapstructure:"approvers"` // email-ы через запятую, как в ENV
	Locale    string `mapstructure:"locale"`    // en | pt-BR
}

// ApproverList разбирает список аппруверов из строки конфига/ENV
func (b BotConfig) ApproverList() []string {
	var out []string
	for _, raw := range strings.Split(b.Approvers, ",") {
		if email := strings.TrimSpace(raw); email != "" {
			out = append(out, email)
		}
	}
	return out
}

// GCPConfig содержит учетные данные для Secret Manager и Chat API.
type GCPConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"` // пусто = Application Default Credentials
}

// ChatConfig настраивает проверку входящих вебхуков.
type ChatConfig struct {
	// Audience — номер проекта, на который выписан Bearer-токен платформы.
	// Пустое значение отключает проверку (локальная разработка).
	Audience string `mapstructure:"audience"`
}

// LoggerConfig настраивает поведение zap логгера.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// LoadConfig инициализирует конфигурацию, объединяя значения из файла и ENV.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// 1. Настройка поиска файла
	v.SetConfigName("config")    // имя файла без расширения
	v.SetConfigType("yaml")      // формат
	v.AddConfigPath(".")         // ищем в корне
	v.AddConfigPath("./configs") // и в папке с конфигами

	// 2. Настройка переменных окружения (ENV)
	// Позволяет перекрывать конфиг: BOT_APPROVERS=a@x.com,b@x.com перекроет bot.approvers
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 3. Установка дефолтных значений
	setDefaults(v)

	// 4. Чтение файла
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Если файла нет — работаем на ENV и дефолтах
	}

	// 5. Маппинг в структуру
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if len(cfg.Bot.ApproverList()) == 0 {
		return nil, errors.New("bot.approvers (BOT_APPROVERS) must list at least one approver email")
	}

	return &cfg, nil
}

// Дефолт регистрирует ключ во viper — без этого ENV-переопределение
// не попадает в Unmarshal
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("registry.backend", "memory")
	v.SetDefault("registry.ttl", time.Duration(0))
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("bot.approvers", "")
	v.SetDefault("bot.locale", "en")
	v.SetDefault("gcp.credentials_file", "")
	v.SetDefault("chat.audience", "")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
}
