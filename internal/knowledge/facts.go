package knowledge

// seedFacts populate an empty index
var seedFacts = []string{
	// Python core
	"Python 4.0 is not currently planned. Guido van Rossum has said it is unlikely to happen any time soon.",
	"The Global Interpreter Lock (GIL) prevents multiple native threads from executing Python bytecodes at once in CPython.",
	"Lists are mutable arrays. Tuples are immutable sequences. Using tuples can be slightly faster and safer for fixed data.",
	"Decorators are functions that modify the behavior of other functions or methods. They use the @syntax.",
	"Generators are iterators that yield results one by one using `yield`, saving memory compared to lists.",
	"Context managers (with statement) ensure resources like files or locks are properly managed (opened/closed).",

	// Databases and SQL
	"ACID stands for Atomicity, Consistency, Isolation, Durability - properties that guarantee database transaction reliability.",
	"Indexing improves read speed but slows down write operations (INSERT/UPDATE/DELETE).",
	"Normalization is the process of organizing data to reduce redundancy. Denormalization is used for performance optimization.",
	"Sharding is horizontal scaling where data is distributed across multiple servers (shards), often by a shard key.",
	"CAP Theorem: A distributed system can provide only two of three: Consistency, Availability, Partition Tolerance.",
	"N+1 problem occurs when code explicitly executes a query for each child record instead of fetching them in a single query.",

	// Architecture and general
	"REST APIs typically use standard HTTP methods (GET, POST, PUT, DELETE) and commonly return JSON.",
	"Microservices architecture splits a monolithic app into smaller, independent services communicating via APIs.",
	"Docker containers package code and dependencies together to ensure consistency across environments.",
	"CI/CD (Continuous Integration/Continuous Deployment) automates testing and deployment pipelines.",
	"SOLID principles: Single Responsibility, Open/Closed, Liskov Substitution, Interface Segregation, Dependency Inversion.",

	// Topics that come up in scripted scenarios
	"Python's asyncio uses an event loop to run asynchronous tasks on a single thread.",
	"In Django, `select_related` performs a SQL join to fetch related objects, while `prefetch_related` does a separate lookup.",
	"Metaclasses in Python allow you to customize class creation. They are 'classes of classes'.",
}

// SeedFacts returns a copy of the built-in fact corpus
func SeedFacts() []string {
	out := make([]string, len(seedFacts))
	copy(out, seedFacts)
	return out
}
