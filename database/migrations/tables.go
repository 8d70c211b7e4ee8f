package migrations

func init() {
	create("20260101000000_create_users_table", "USERS", `
		user_id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(150) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'Worker',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP`, `
		user_id INTEGER PRIMARY KEY AUTOINCREMENT,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(150) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'Worker',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP`)

	create("20260101000001_create_clients_table", "CLIENTS", `
		client_id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		contact_info VARCHAR(255) NOT NULL,
		address VARCHAR(255),
		additional_info TEXT,
		plan VARCHAR(20) NOT NULL DEFAULT 'Oro',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_clients_user FOREIGN KEY (user_id) REFERENCES USERS (user_id)`, `
		client_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES USERS (user_id),
		contact_info VARCHAR(255) NOT NULL,
		address VARCHAR(255),
		additional_info TEXT,
		plan VARCHAR(20) NOT NULL DEFAULT 'Oro',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP`)

	create("20260101000002_create_projects_table", "PROJECTS", `
		project_id INT AUTO_INCREMENT PRIMARY KEY,
		client_id INT NULL,
		project_name VARCHAR(150) NOT NULL,
		description TEXT,
		status VARCHAR(20) NOT NULL DEFAULT 'Pending',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_projects_client FOREIGN KEY (client_id) REFERENCES CLIENTS (client_id) ON DELETE SET NULL`, `
		project_id INTEGER PRIMARY KEY AUTOINCREMENT,
		client_id INTEGER NULL REFERENCES CLIENTS (client_id) ON DELETE SET NULL,
		project_name VARCHAR(150) NOT NULL,
		description TEXT,
		status VARCHAR(20) NOT NULL DEFAULT 'Pending',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP`)

	create("20260101000003_create_tasks_table", "TASKS", `
		task_id INT AUTO_INCREMENT PRIMARY KEY,
		project_id INT NOT NULL,
		worker_id INT NULL,
		description TEXT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'Pending',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_tasks_status (status),
		CONSTRAINT fk_tasks_project FOREIGN KEY (project_id) REFERENCES PROJECTS (project_id) ON DELETE CASCADE,
		CONSTRAINT fk_tasks_worker FOREIGN KEY (worker_id) REFERENCES USERS (user_id) ON DELETE SET NULL`, `
		task_id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL REFERENCES PROJECTS (project_id) ON DELETE CASCADE,
		worker_id INTEGER NULL REFERENCES USERS (user_id) ON DELETE SET NULL,
		description TEXT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'Pending',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP`)

	create("20260101000004_create_faqs_table", "FAQS", `
		faq_id INT AUTO_INCREMENT PRIMARY KEY,
		question VARCHAR(255) NOT NULL,
		answer TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP`, `
		faq_id INTEGER PRIMARY KEY AUTOINCREMENT,
		question VARCHAR(255) NOT NULL,
		answer TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP`)

	create("20260101000005_create_files_table", "FILES", `
		file_id INT AUTO_INCREMENT PRIMARY KEY,
		file_name VARCHAR(255) NOT NULL,
		original_name VARCHAR(255) NOT NULL,
		file_path VARCHAR(512) NOT NULL,
		file_size BIGINT NOT NULL DEFAULT 0,
		mime_type VARCHAR(100),
		project_id INT NOT NULL,
		uploaded_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_files_project FOREIGN KEY (project_id) REFERENCES PROJECTS (project_id) ON DELETE CASCADE`, `
		file_id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_name VARCHAR(255) NOT NULL,
		original_name VARCHAR(255) NOT NULL,
		file_path VARCHAR(512) NOT NULL,
		file_size BIGINT NOT NULL DEFAULT 0,
		mime_type VARCHAR(100),
		project_id INTEGER NOT NULL REFERENCES PROJECTS (project_id) ON DELETE CASCADE,
		uploaded_at DATETIME DEFAULT CURRENT_TIMESTAMP`)
}
