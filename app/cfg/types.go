package cfg

type Cfg struct {
	// Storage configuration
	ShopsDir string
	DBPath   string

	// Application configuration
	Port              string
	BaseUrl           string
	ProxyPath         string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
