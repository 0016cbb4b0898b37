package content

import (
	"fmt"

	"netquest-service/internal/domain"
)

// DefaultBankID identifies the compiled-in networking bank.
const DefaultBankID = "netquest"

// TeamColors and TeamIcons are assigned to teams by position.
var (
	TeamColors = []string{"bg-red-600", "bg-blue-600", "bg-green-700", "bg-purple-600", "bg-orange-700", "bg-pink-600"}
	TeamIcons  = []string{"Rocket", "Zap", "Star", "Crown", "Smile", "Heart"}
)

// options builds text options with sequential IDs, marking the one at correct.
func options(correct int, texts ...string) []domain.Option {
	out := make([]domain.Option, len(texts))
	for i, text := range texts {
		out[i] = domain.Option{ID: fmt.Sprintf("opt-%d", i), Text: text, Correct: i == correct}
	}
	return out
}

// NetQuest returns the classroom networking bank: six categories of six questions each.
func NetQuest() domain.BankData {
	return domain.BankData{
		ID:         DefaultBankID,
		Categories: netQuestCategories(),
		Questions:  netQuestQuestions(),
	}
}

// Banks returns every compiled-in bank keyed by ID.
func Banks() map[string]domain.BankData {
	return map[string]domain.BankData{DefaultBankID: NetQuest()}
}

func netQuestCategories() []domain.Category {
	return []domain.Category{
		{ID: "basics", Title: "Network Basics", IconName: "Globe"},
		{ID: "media", Title: "Wired vs Wireless", IconName: "Wifi"},
		{ID: "types", Title: "LAN, MAN, WAN", IconName: "Network"},
		{ID: "topo", Title: "Topologies", IconName: "Share2"},
		{ID: "ip", Title: "IP Address", IconName: "Hash"},
		{ID: "sec", Title: "Security & Cloud", IconName: "Lock"},
	}
}

func netQuestQuestions() []domain.Question {
	return []domain.Question{
		// Network basics
		{
			ID: "b-100", CategoryID: "basics", Points: 100,
			Text:        "What is the primary purpose of a computer network?",
			Options:     options(0, "Sharing resources and data", "Making computers look cool", "Increasing electricity usage", "Printing paper faster"),
			Explanation: "Networks allow devices to share files, printers, and internet connections.",
		},
		{
			ID: "b-200", CategoryID: "basics", Points: 200,
			Text:        "Which element is NOT part of a basic communication model?",
			Options:     options(2, "Sender", "Receiver", "Printer", "Medium (Channel)"),
			Explanation: "The basic elements are Sender, Receiver, Message, and Medium.",
		},
		{
			ID: "b-300", CategoryID: "basics", Points: 300,
			Text:        "In a home network, your laptop is usually the...",
			Options:     options(0, "Client", "Server", "Mainframe", "ISP"),
			Explanation: "Your laptop requests information (websites, videos) from servers, making it a Client.",
		},
		{
			ID: "b-400", CategoryID: "basics", Points: 400,
			Text:        "Which device typically connects your home network to the Internet Service Provider (ISP)?",
			Options:     options(1, "Switch", "Modem/Router", "Repeater", "Hub"),
			Explanation: "The Modem modulates signals to communicate with the ISP, and the Router directs traffic.",
		},
		{
			ID: "b-500", CategoryID: "basics", Points: 500,
			Text:        "Which device decides where to send data packets to ensure they reach the correct destination network?",
			Options:     options(1, "Hub", "Router", "Switch", "Repeater"),
			Explanation: "Routers are the \"traffic controllers\" of the internet, directing packets between different networks.",
		},
		{
			ID: "b-600", CategoryID: "basics", Points: 600,
			Text:        "What does \"IoT\" stand for?",
			Options:     options(2, "Input of Technology", "Internal Office Tools", "Internet of Things", "International Online Trade"),
			Explanation: "IoT refers to everyday objects (lights, fridges, cars) connected to the internet.",
		},

		// Wired vs wireless
		{
			ID: "m-100", CategoryID: "media", Points: 100,
			Text:        "Which transmission medium uses light to send data very fast?",
			Options:     options(2, "Copper Wire", "Coaxial Cable", "Fiber Optic", "Bluetooth"),
			Explanation: "Fiber Optic cables use pulses of light (lasers/LEDs) to transmit data.",
		},
		{
			ID: "m-200", CategoryID: "media", Points: 200,
			Text:        "Which is a wireless technology used for short-range connections (like headphones)?",
			Options:     options(0, "Bluetooth", "Fiber", "Ethernet", "Satellite"),
			Explanation: "Bluetooth is designed for PAN (Personal Area Networks) over short distances.",
		},
		{
			ID: "m-300", CategoryID: "media", Points: 300,
			Text:        "Scenario: You are wiring an old office building with lots of electrical interference. Which cable is best?",
			Options:     options(1, "Unshielded Twisted Pair", "Shielded Twisted Pair or Fiber", "WiFi", "Bluetooth"),
			Explanation: "Shielding protects against Electromagnetic Interference (EMI) from machinery or old wiring.",
		},
		{
			ID: "m-400", CategoryID: "media", Points: 400,
			Text:        "True or False: Wireless signals can travel through thick concrete walls without any signal loss.",
			Options:     options(1, "True", "False"),
			Explanation: "False. Concrete and metal significantly absorb and reflect WiFi signals.",
		},
		{
			ID: "m-500", CategoryID: "media", Points: 500,
			Text:        "What term describes the \"delay\" or time it takes for data to travel from source to destination?",
			Options:     options(2, "Bandwidth", "Throughput", "Latency", "Frequency"),
			Explanation: "Latency (or ping) is the time delay. High latency causes lag in games or calls.",
		},
		{
			ID: "m-600", CategoryID: "media", Points: 600,
			Text:        "Which cellular technology is the newest and provides the fastest mobile internet speeds?",
			Options:     options(2, "3G", "4G LTE", "5G", "GPRS"),
			Explanation: "5G offers higher speeds, lower latency, and capacity for more devices than 4G.",
		},

		// Network types
		{
			ID: "t-100", CategoryID: "types", Points: 100,
			Text:        "A network contained within a single room or building is a...",
			Options:     options(0, "LAN (Local Area Network)", "MAN (Metropolitan Area Network)", "WAN (Wide Area Network)", "PAN (Personal Area Network)"),
			Explanation: "LANs are small, local networks like in a home or office.",
		},
		{
			ID: "t-200", CategoryID: "types", Points: 200,
			Text:        "The Internet is the largest example of a...",
			Options:     options(2, "LAN", "MAN", "WAN", "SAN"),
			Explanation: "WAN (Wide Area Network) spans large geographical distances (countries/continents).",
		},
		{
			ID: "t-300", CategoryID: "types", Points: 300,
			Text:        "A network connecting different company branches across a whole city is best described as a...",
			Options:     options(1, "LAN", "MAN", "WAN", "PAN"),
			Explanation: "MAN (Metropolitan Area Network) connects users within a city area.",
		},
		{
			ID: "t-400", CategoryID: "types", Points: 400,
			Text:        "Which network type is likely owned by a single person?",
			Options:     options(0, "PAN (Personal Area Network)", "WAN", "MAN", "The Internet"),
			Explanation: "PANs are personal, like your phone connected to your watch and headphones.",
		},
		{
			ID: "t-500", CategoryID: "types", Points: 500,
			Text:        "A security device that sits between a private network and the public internet is called a...",
			Options:     options(3, "Switch", "Server", "Modem", "Firewall"),
			Explanation: "A Firewall filters traffic, blocking unauthorized access to the internal network.",
		},
		{
			ID: "t-600", CategoryID: "types", Points: 600,
			Text:        "A private network accessible only to an organization's staff is called an...",
			Options:     options(0, "Intranet", "Extranet", "Internet", "Dark Web"),
			Explanation: "An Intranet is a private internal network, while the Internet is public.",
		},

		// Topologies
		{
			ID: "top-100", CategoryID: "topo", Points: 100,
			Text:           "Which topology connects all devices to a central device (like a Switch)?",
			Options:        options(0, "Star", "Bus", "Ring", "Mesh"),
			TopologyVisual: domain.TopologyStar,
			Explanation:    "Star topology is the most common, featuring a central hub/switch.",
		},
		{
			ID: "top-200", CategoryID: "topo", Points: 200,
			Text:           "In this topology, if the main cable breaks, the whole network goes down.",
			Options:        options(1, "Star", "Bus", "Ring", "Mesh"),
			TopologyVisual: domain.TopologyBus,
			Explanation:    "Bus topology uses a single backbone cable. If it snaps, communication stops.",
		},
		{
			ID: "top-300", CategoryID: "topo", Points: 300,
			Text:           "Which topology is the most expensive but most reliable because every device connects to every other device?",
			Options:        options(3, "Star", "Bus", "Ring", "Full Mesh"),
			TopologyVisual: domain.TopologyMesh,
			Explanation:    "Full Mesh provides high redundancy but requires many cables.",
		},
		{
			ID: "top-400", CategoryID: "topo", Points: 400,
			Text:           "Data travels in one direction, passing through each computer until it reaches the destination.",
			Options:        options(2, "Star", "Bus", "Ring", "Mesh"),
			TopologyVisual: domain.TopologyRing,
			Explanation:    "Token Ring networks pass a token around the circle.",
		},
		{
			ID: "top-500", CategoryID: "topo", Points: 500,
			Text:        "A \"Tree\" topology is usually a combination of which two topologies?",
			Options:     options(0, "Star and Bus", "Ring and Mesh", "Star and Ring", "Mesh and Bus"),
			Explanation: "A Tree topology typically consists of Star networks connected via a Bus backbone.",
		},
		{
			ID: "top-600", CategoryID: "topo", Points: 600,
			Text:        "Which topology is a mix of two or more different topologies?",
			Options:     options(2, "Complex", "Double", "Hybrid", "Compound"),
			Explanation: "A Hybrid topology combines multiple types (e.g., Star-Bus) to fit specific needs.",
		},

		// IP addressing
		{
			ID: "ip-100", CategoryID: "ip", Points: 100,
			Text:        "What does \"IP\" stand for?",
			Options:     options(1, "Internal Phone", "Internet Protocol", "Instant Post", "International Port"),
			Explanation: "Internet Protocol is the set of rules governing data format and addressing.",
		},
		{
			ID: "ip-200", CategoryID: "ip", Points: 200,
			Text:        "Which of these looks like a standard IPv4 address?",
			Options:     options(0, "192.168.1.1", "A1:B2:C3:D4", "www.google.com", "2001:0db8:85a3:0000"),
			Explanation: "IPv4 uses four numbers (0-255) separated by dots.",
		},
		{
			ID: "ip-300", CategoryID: "ip", Points: 300,
			Text:        "Why are we moving from IPv4 to IPv6?",
			Options:     options(0, "We ran out of IPv4 addresses", "IPv6 is cheaper", "IPv6 cables are smaller", "IPv4 was too fast"),
			Explanation: "The explosion of internet devices exhausted the ~4 billion IPv4 addresses.",
		},
		{
			ID: "ip-400", CategoryID: "ip", Points: 400,
			Text:        "True or False: An IP address is like a mailing address for a computer.",
			Options:     options(0, "True", "False"),
			Explanation: "True. It uniquely identifies a device so data knows where to go.",
		},
		{
			ID: "ip-500", CategoryID: "ip", Points: 500,
			Text:        "Which system translates human-friendly names like \"google.com\" into IP addresses?",
			Options:     options(3, "DHCP", "HTTP", "VPN", "DNS"),
			Explanation: "DNS (Domain Name System) is the \"phonebook\" of the internet.",
		},
		{
			ID: "ip-600", CategoryID: "ip", Points: 600,
			Text:        "Every network card has a permanent, unique physical ID called a...",
			Options:     options(1, "IP Address", "MAC Address", "DNS Name", "Zip Code"),
			Explanation: "The MAC (Media Access Control) address is hard-coded into the hardware.",
		},

		// Security and cloud
		{
			ID: "sec-100", CategoryID: "sec", Points: 100,
			Text:        "What is a simple way to protect your account from unauthorized access?",
			Options:     options(0, "Use a strong, unique password", "Write your password on a post-it", "Use \"password123\"", "Share it with your best friend"),
			Explanation: "Complex passwords prevent easy guessing or hacking.",
		},
		{
			ID: "sec-200", CategoryID: "sec", Points: 200,
			Text:        "Harmful software designed to damage or gain unauthorized access to a computer is called...",
			Options:     options(2, "Hardware", "Firmware", "Malware", "Shareware"),
			Explanation: "Malware includes viruses, worms, and ransomware.",
		},
		{
			ID: "sec-300", CategoryID: "sec", Points: 300,
			Text:        "An email pretending to be from your bank asking you to click a link is likely...",
			Options:     options(1, "Fishing", "Phishing", "Spamming", "Hacking"),
			Explanation: "Phishing attacks try to trick you into revealing personal information.",
		},
		{
			ID: "sec-400", CategoryID: "sec", Points: 400,
			Text:        "When you store files on Google Drive or Dropbox, you are using...",
			Options:     options(1, "Local Storage", "Cloud Storage", "Flash Storage", "RAM"),
			Explanation: "Cloud storage saves data on remote servers accessed via the internet.",
		},
		{
			ID: "sec-500", CategoryID: "sec", Points: 500,
			Text:        "Which tool creates a secure, encrypted \"tunnel\" for your internet connection?",
			Options:     options(3, "GPS", "ISP", "DNS", "VPN"),
			Explanation: "A VPN (Virtual Private Network) hides your activity and protects data on public WiFi.",
		},
		{
			ID: "sec-600", CategoryID: "sec", Points: 600,
			Text:        "What does the \"S\" in \"HTTPS\" stand for?",
			Options:     options(0, "Secure", "Simple", "Speed", "Standard"),
			Explanation: "HTTPS (Hypertext Transfer Protocol Secure) encrypts communication between browser and website.",
		},
	}
}
