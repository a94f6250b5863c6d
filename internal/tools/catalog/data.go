package catalog

type (
	weather struct {
		City        string
		Temperature int
		Humidity    int
		Condition   string
		WindSpeed   int
		AirQuality  string
	}

	book struct {
		ISBN        string
		Title       string
		Author      string
		Publisher   string
		Year        int
		Genre       string
		Pages       int
		Available   bool
		Description string
	}

	historicalEvent struct {
		Name    string
		Summary string
	}
)

// cities keeps the listing order stable
var cities = []weather{
	{City: "Seoul", Temperature: 18, Humidity: 55, Condition: "CLOUDY", WindSpeed: 12, AirQuality: "GOOD"},
	{City: "Busan", Temperature: 22, Humidity: 65, Condition: "SUNNY", WindSpeed: 8, AirQuality: "MODERATE"},
	{City: "Jeju", Temperature: 20, Humidity: 70, Condition: "RAINY", WindSpeed: 15, AirQuality: "GOOD"},
	{City: "Daegu", Temperature: 19, Humidity: 50, Condition: "SUNNY", WindSpeed: 10, AirQuality: "GOOD"},
}

var books = []book{
	{
		ISBN: "978-1234567890", Title: "Clean Code", Author: "Robert C. Martin", Publisher: "Insight",
		Year: 2013, Genre: "programming", Pages: 584, Available: true,
		Description: "A handbook of agile software craftsmanship.",
	},
	{
		ISBN: "978-0987654321", Title: "Effective Java", Author: "Joshua Bloch", Publisher: "Insight",
		Year: 2018, Genre: "programming", Pages: 468, Available: true,
		Description: "Best practices for the Java platform.",
	},
	{
		ISBN: "978-1122334455", Title: "Harry Potter and the Philosopher's Stone", Author: "J.K. Rowling", Publisher: "Munhak Soochup",
		Year: 1999, Genre: "fantasy", Pages: 359, Available: false,
		Description: "An ordinary boy discovers the world of magic.",
	},
}

var historicalEvents = []historicalEvent{
	{"korean war", "The Korean War broke out on June 25, 1950 and the armistice was signed on July 27, 1953."},
	{"french revolution", "The French Revolution began in 1789 and lasted until 1799. The storming of the Bastille on July 14, 1789 is its symbol."},
	{"fall of the berlin wall", "The Berlin Wall fell on November 9, 1989, marking the end of the Cold War."},
	{"world war i", "World War I began on July 28, 1914 and ended on November 11, 1918."},
	{"world war ii", "World War II began with the invasion of Poland on September 1, 1939 and ended with Japan's surrender on September 2, 1945."},
	{"establishment of the republic of korea", "The government of the Republic of Korea was established on August 15, 1948."},
	{"march 1st movement", "The March 1st Movement, a Korean independence movement, began on March 1, 1919."},
	{"us declaration of independence", "The United States Declaration of Independence was adopted on July 4, 1776."},
}

var (
	conditionLabels = map[string]string{
		"SUNNY":  "sunny",
		"CLOUDY": "cloudy",
		"RAINY":  "rainy",
		"SNOWY":  "snowy",
	}
	airQualityLabels = map[string]string{
		"GOOD":     "good",
		"MODERATE": "moderate",
		"BAD":      "bad",
	}
	exerciseLabels = map[string]string{
		"RUNNING":         "running",
		"CYCLING":         "cycling",
		"SWIMMING":        "swimming",
		"WEIGHT_TRAINING": "weight training",
		"YOGA":            "yoga",
	}
)

func label(labels map[string]string, key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}
